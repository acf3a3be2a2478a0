package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/techmaster-vietnam/roleapi/core"
)

// MaxRoleNameLength khớp với độ dài cột roles.name
const MaxRoleNameLength = 256

var validate = validator.New()

type roleNameInput struct {
	Name string `validate:"required,max=256"`
}

// ValidateRoleName kiểm tra tên role trước khi store ghi vào DB
// Không trim, không đổi hoa/thường: tên được lưu đúng như client gửi lên.
// Trả về nil nếu hợp lệ.
func ValidateRoleName(name string) []core.StoreError {
	err := validate.Struct(roleNameInput{Name: name})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []core.StoreError{{
			Code:        core.CodeInvalidRoleName,
			Description: err.Error(),
		}}
	}

	storeErrs := make([]core.StoreError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "max":
			storeErrs = append(storeErrs, core.StoreError{
				Code:        core.CodeRoleNameTooLong,
				Description: fmt.Sprintf("Role name '%s' is longer than %s characters.", name, fe.Param()),
			})
		default:
			storeErrs = append(storeErrs, core.StoreError{
				Code:        core.CodeInvalidRoleName,
				Description: fmt.Sprintf("Role name '%s' is invalid.", name),
			})
		}
	}
	return storeErrs
}

// DuplicateUserName builds the store error reported when a username is taken
func DuplicateUserName(username string) core.StoreError {
	return core.StoreError{
		Code:        core.CodeDuplicateUserName,
		Description: fmt.Sprintf("Username '%s' is already taken.", username),
	}
}

// DuplicateRoleName builds the store error reported when a role name is taken
func DuplicateRoleName(name string) core.StoreError {
	return core.StoreError{
		Code:        core.CodeDuplicateRoleName,
		Description: fmt.Sprintf("Role name '%s' is already taken.", name),
	}
}
