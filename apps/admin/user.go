package main

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
)

func (cli *commandLine) addUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	if err := nu.Validate(cli.validate); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			flds := make([]core.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				flds = append(flds, core.FieldError{Field: fe.Field(), Error: "failed on " + fe.Tag()})
			}
			return user.User{}, core.NewValidationError(nil, flds...)
		}
		return user.User{}, err
	}
	return cli.usrSvc.Create(ctx, nu)
}

func (cli *commandLine) resetPassword(ctx context.Context, uname, pwd string) error {
	return cli.usrSvc.ResetPassword(ctx, uname, pwd)
}
