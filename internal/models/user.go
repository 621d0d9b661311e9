package models

// UserModel is an optional account that summaries can be linked to.
// Deleting a user removes its summaries (see user.Service.Delete).
type UserModel struct {
	Base
	Email string `json:"email" gorm:"size:120;uniqueIndex;not null"`
}

func (UserModel) TableName() string { return "users" }
