package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	GroupAdmin      = "admin"
	GroupEditors    = "editors"
	GroupManagement = "management"
	GroupUsers      = "users"
)

// DefaultGroups are seeded at startup. New accounts join GroupUsers.
var DefaultGroups = []string{GroupAdmin, GroupEditors, GroupManagement, GroupUsers}

type Group struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:80;not null"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Password  string    `json:"-" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	IsStaff   bool      `json:"is_staff" gorm:"not null;default:false"`
	Groups    []Group   `json:"groups,omitempty" gorm:"many2many:user_groups;"`
	Profile   *Profile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupNames lists the names of the groups the user belongs to.
func (u *User) GroupNames() []string {
	names := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		names = append(names, g.Name)
	}
	return names
}

// PrimaryGroup is the role label shown to clients.
func (u *User) PrimaryGroup() string {
	if u.IsStaff {
		return GroupAdmin
	}
	for _, candidate := range []string{GroupManagement, GroupAdmin, GroupEditors, GroupUsers} {
		for _, g := range u.Groups {
			if g.Name == candidate {
				return candidate
			}
		}
	}
	return ""
}

type Profile struct {
	ID         uint            `json:"-" gorm:"primarykey"`
	UserID     uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio        string          `json:"bio" gorm:"size:500"`
	BirthDate  *datatypes.Date `json:"birth_date"`
	ProfilePic *string         `json:"profile_pic" gorm:"size:255"`
	CreatedAt  time.Time       `json:"created_at"`
}
