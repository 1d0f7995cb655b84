package api

import (
	"bytes"
	"encoding/json"
)

type registerInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"omitempty,oneof=admin developer tester"`
	ProjectCode string `json:"project_code" validate:"omitempty,max=32"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type clientInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

type projectInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	ClientID    *uint  `json:"client_id" validate:"omitempty,gt=0"`
}

type projectUpdateInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type joinProjectInput struct {
	ProjectCode string `json:"project_code" validate:"required,max=32"`
}

type joinLockInput struct {
	Locked *bool `json:"locked" validate:"required"`
}

type sprintCreateInput struct {
	ProjectID   uint    `json:"project_id" validate:"required"`
	Name        string  `json:"name" validate:"max=100"`
	Description string  `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      string  `json:"status" validate:"omitempty,oneof=planned active completed archived"`
}

type sprintUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status" validate:"omitempty,oneof=planned active completed archived"`
}

type issueCreateInput struct {
	SprintID    uint   `json:"sprint_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,oneof=bug feature task"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status      string `json:"status" validate:"omitempty,oneof=todo inprogress inreview done"`
	AssigneeID  *uint  `json:"assignee_id" validate:"omitempty,gt=0"`
}

type issueUpdateInput struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description"`
	Type        *string      `json:"type" validate:"omitempty,oneof=bug feature task"`
	Priority    *string      `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Status      *string      `json:"status" validate:"omitempty,oneof=todo inprogress inreview done"`
	AssigneeID  optionalUint `json:"assignee_id"`
}

// optionalUint tells an absent field apart from an explicit null.
type optionalUint struct {
	Set   bool
	Value *uint
}

func (field *optionalUint) UnmarshalJSON(data []byte) error {
	field.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		field.Value = nil
		return nil
	}
	var value uint
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	field.Value = &value
	return nil
}
