package core

import (
	"errors"
	"strings"
)

// Kind phân loại lỗi trả về từ store layer.
// Handler chỉ dịch Kind sang HTTP status đúng một lần ở boundary.
type Kind int

const (
	// KindUnknown là lỗi không được phân loại (lỗi driver, lỗi kết nối...)
	KindUnknown Kind = iota
	// KindNotFound: user hoặc role được tham chiếu không tồn tại
	KindNotFound
	// KindValidation: store từ chối thao tác kèm danh sách lỗi (ví dụ trùng tên role)
	KindValidation
	// KindFailed: store báo thất bại nhưng không có lý do cụ thể
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store error codes.
const (
	CodeInvalidRoleName   = "InvalidRoleName"
	CodeRoleNameTooLong   = "RoleNameTooLong"
	CodeDuplicateRoleName = "DuplicateRoleName"
	CodeDuplicateUserName = "DuplicateUserName"
	CodeUserAlreadyInRole = "UserAlreadyInRole"
	CodeUserNotInRole     = "UserNotInRole"
)

// StoreError là một lỗi cụ thể do store báo về
type StoreError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Error is the classified error returned by RoleStore and UserRoleAssignment
type Error struct {
	Kind    Kind
	Message string
	Errors  []StoreError
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Errors) > 0 {
		descs := make([]string, len(e.Errors))
		for i, se := range e.Errors {
			descs[i] = se.Description
		}
		return strings.Join(descs, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound tạo lỗi KindNotFound với message trả về cho client
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Validation tạo lỗi KindValidation từ danh sách lỗi của store
func Validation(errs ...StoreError) *Error {
	return &Error{Kind: KindValidation, Errors: errs}
}

// Failed tạo lỗi KindFailed. Code/description chỉ dùng để log, không trả về client.
func Failed(code, description string) *Error {
	return &Error{
		Kind:   KindFailed,
		Errors: []StoreError{{Code: code, Description: description}},
	}
}

// KindOf returns the Kind carried by err, KindUnknown when err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is classified as KindNotFound.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// StoreErrors returns the store error list carried by err, nil otherwise.
func StoreErrors(err error) []StoreError {
	var e *Error
	if errors.As(err, &e) {
		return e.Errors
	}
	return nil
}
