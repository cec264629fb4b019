package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"chat-rooms/errors"
)

var validate = validator.New()

type usernameParams struct {
	Username string `validate:"required,min=2,max=50"`
}

type roomParams struct {
	ID   string `validate:"required"`
	Name string `validate:"required,min=3,max=100"`
}

type messageParams struct {
	SenderID       string `validate:"required"`
	SenderUsername string `validate:"required"`
	Content        string `validate:"required,max=1000"`
	RoomID         string `validate:"required"`
}

type privateMessageParams struct {
	SenderID          string `validate:"required"`
	SenderUsername    string `validate:"required"`
	RecipientID       string `validate:"required"`
	RecipientUsername string `validate:"required"`
	Content           string `validate:"required,max=1000"`
}

func checkStruct(params any) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	return nil
}
