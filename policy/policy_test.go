package policy

import (
	"testing"

	"blog-api/models"

	"github.com/stretchr/testify/assert"
)

var (
	reader  = &Actor{UserID: 1, Groups: []string{models.GroupUsers}}
	editor  = &Actor{UserID: 2, Groups: []string{models.GroupUsers, models.GroupEditors}}
	manager = &Actor{UserID: 3, Groups: []string{models.GroupManagement}}
	admin   = &Actor{UserID: 4, Groups: []string{models.GroupAdmin}}
	staff   = &Actor{UserID: 5, IsStaff: true}
)

func TestReadsAreOpen(t *testing.T) {
	p := New(Options{})
	for _, r := range []Resource{Article(2), Comment(1), Profile(1)} {
		assert.True(t, p.Can(nil, ActionRead, r), r.Kind)
		assert.True(t, p.Can(reader, ActionRead, r), r.Kind)
	}
}

func TestArticleRules(t *testing.T) {
	p := New(Options{})

	cases := []struct {
		name   string
		actor  *Actor
		action Action
		want   bool
	}{
		{"anonymous create", nil, ActionCreate, false},
		{"reader create", reader, ActionCreate, false},
		{"editor create", editor, ActionCreate, true},
		{"manager create", manager, ActionCreate, true},
		{"admin create", admin, ActionCreate, true},
		{"staff create", staff, ActionCreate, true},
		{"author without group update", &Actor{UserID: 9}, ActionUpdate, false},
		{"editor update", editor, ActionUpdate, true},
		{"editor delete", editor, ActionDelete, false},
		{"manager delete", manager, ActionDelete, true},
		{"admin delete", admin, ActionDelete, true},
		{"staff delete", staff, ActionDelete, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Can(tc.actor, tc.action, Article(9)))
		})
	}
}

func TestCommentRules(t *testing.T) {
	p := New(Options{})
	own := Comment(reader.UserID)

	assert.False(t, p.Can(nil, ActionCreate, Comment(0)))
	assert.True(t, p.Can(reader, ActionCreate, Comment(0)))

	assert.True(t, p.Can(reader, ActionUpdate, own))
	assert.False(t, p.Can(editor, ActionUpdate, own))
	assert.True(t, p.Can(manager, ActionUpdate, own))
	assert.True(t, p.Can(staff, ActionUpdate, own))

	assert.False(t, p.Can(reader, ActionDelete, own))
	assert.False(t, p.Can(editor, ActionDelete, own))
	assert.True(t, p.Can(admin, ActionDelete, own))
}

func TestCommentAuthorDeleteOption(t *testing.T) {
	p := New(Options{CommentAuthorDelete: true})

	assert.True(t, p.Can(reader, ActionDelete, Comment(reader.UserID)))
	assert.False(t, p.Can(reader, ActionDelete, Comment(editor.UserID)))
}

func TestProfileUpdateIsOwnerOnly(t *testing.T) {
	p := New(Options{})

	assert.True(t, p.Can(reader, ActionUpdate, Profile(reader.UserID)))
	assert.False(t, p.Can(staff, ActionUpdate, Profile(reader.UserID)))
	assert.False(t, p.Can(nil, ActionUpdate, Profile(reader.UserID)))
}

func TestUserAdministration(t *testing.T) {
	p := New(Options{})

	assert.False(t, p.Can(nil, ActionRead, Users()))
	assert.False(t, p.Can(editor, ActionManage, Users()))
	assert.True(t, p.Can(manager, ActionRead, Users()))
	assert.True(t, p.Can(staff, ActionManage, Users()))
}

func TestCanSeeUnpublished(t *testing.T) {
	p := New(Options{})

	assert.False(t, p.CanSeeUnpublished(nil))
	assert.False(t, p.CanSeeUnpublished(reader))
	assert.True(t, p.CanSeeUnpublished(editor))
	assert.True(t, p.CanSeeUnpublished(staff))
}

func TestAuthorizeDistinguishesAnonymous(t *testing.T) {
	p := New(Options{})

	err := p.Authorize(nil, ActionCreate, Article(0))
	assert.IsType(t, models.ErrorUnauthorized{}, err)

	err = p.Authorize(reader, ActionCreate, Article(0))
	assert.IsType(t, models.ErrorForbidden{}, err)

	assert.NoError(t, p.Authorize(editor, ActionCreate, Article(0)))
}

func TestActorFromUser(t *testing.T) {
	assert.Nil(t, ActorFromUser(nil))

	u := &models.User{ID: 7, Groups: []models.Group{{Name: models.GroupEditors}}}
	a := ActorFromUser(u)
	assert.Equal(t, uint(7), a.UserID)
	assert.True(t, a.IsEditorial())
	assert.False(t, a.IsManagerial())
}
