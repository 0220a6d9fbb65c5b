// Package policy holds every authorization rule of the API.
package policy

import (
	"blog-api/models"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage covers listing accounts and changing group membership.
	ActionManage Action = "manage"
)

type Kind string

const (
	KindArticle Kind = "article"
	KindComment Kind = "comment"
	KindProfile Kind = "profile"
	KindUsers   Kind = "users"
)

// Resource identifies what is being acted on. OwnerID is zero when the
// resource has no owner yet (creation) or ownership is irrelevant.
type Resource struct {
	Kind    Kind
	OwnerID uint
}

func Article(ownerID uint) Resource { return Resource{Kind: KindArticle, OwnerID: ownerID} }
func Comment(ownerID uint) Resource { return Resource{Kind: KindComment, OwnerID: ownerID} }
func Profile(ownerID uint) Resource { return Resource{Kind: KindProfile, OwnerID: ownerID} }
func Users() Resource               { return Resource{Kind: KindUsers} }

// Actor is the authenticated requester. A nil *Actor is anonymous.
type Actor struct {
	UserID  uint
	IsStaff bool
	Groups  []string
}

func ActorFromUser(u *models.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{UserID: u.ID, IsStaff: u.IsStaff, Groups: u.GroupNames()}
}

func (a *Actor) InGroup(names ...string) bool {
	if a == nil {
		return false
	}
	for _, g := range a.Groups {
		for _, n := range names {
			if g == n {
				return true
			}
		}
	}
	return false
}

// IsEditorial covers staff, editors, management and admin.
func (a *Actor) IsEditorial() bool {
	return a != nil && (a.IsStaff || a.InGroup(models.GroupEditors, models.GroupManagement, models.GroupAdmin))
}

// IsManagerial covers staff, management and admin.
func (a *Actor) IsManagerial() bool {
	return a != nil && (a.IsStaff || a.InGroup(models.GroupManagement, models.GroupAdmin))
}

func (a *Actor) owns(r Resource) bool {
	return a != nil && r.OwnerID != 0 && a.UserID == r.OwnerID
}

type Options struct {
	// CommentAuthorDelete lets authors delete their own comments.
	CommentAuthorDelete bool
}

type Policy struct {
	opts Options
}

func New(opts Options) *Policy {
	return &Policy{opts: opts}
}

// CanSeeUnpublished reports whether drafts and archived articles are visible.
func (p *Policy) CanSeeUnpublished(actor *Actor) bool {
	return actor.IsEditorial()
}

func (p *Policy) Can(actor *Actor, action Action, r Resource) bool {
	if action == ActionRead && r.Kind != KindUsers {
		return true
	}

	switch r.Kind {
	case KindArticle:
		switch action {
		case ActionCreate, ActionUpdate:
			return actor.IsEditorial()
		case ActionDelete:
			return actor.IsManagerial()
		}
	case KindComment:
		switch action {
		case ActionCreate:
			return actor != nil
		case ActionUpdate:
			return actor.owns(r) || actor.IsManagerial()
		case ActionDelete:
			return actor.IsManagerial() || (p.opts.CommentAuthorDelete && actor.owns(r))
		}
	case KindProfile:
		if action == ActionUpdate {
			return actor.owns(r)
		}
	case KindUsers:
		return actor.IsManagerial()
	}
	return false
}

// Authorize is Can expressed as an error: 401 for anonymous actors and 403
// for everyone else.
func (p *Policy) Authorize(actor *Actor, action Action, r Resource) error {
	if p.Can(actor, action, r) {
		return nil
	}
	if actor == nil {
		return models.ErrorUnauthorized{Message: "Authentication credentials were not provided."}
	}
	return models.ErrorForbidden{Message: "You do not have permission to perform this action."}
}
