package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound      = errors.New("user not found")
	ErrWorkbenchNotFound = errors.New("workbench not found")
	ErrBoardNotFound     = errors.New("board not found")
	ErrColumnNotFound    = errors.New("column not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrChatNotFound      = errors.New("chat not found")
	ErrMessageNotFound   = errors.New("message not found")
	ErrMemberNotFound    = errors.New("member not found")

	ErrNameRequired  = errors.New("name is required")
	ErrNameTooLong   = errors.New("name exceeds maximum length")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title exceeds maximum length")

	ErrInvalidRole          = errors.New("invalid role")
	ErrCannotInviteOwner    = errors.New("cannot invite a user as owner")
	ErrCannotPromoteOwner   = errors.New("cannot assign the owner role directly")
	ErrCannotModifyOwner    = errors.New("cannot modify the owner's membership")
	ErrCannotChangeOwnRole  = errors.New("cannot change your own role")
	ErrMemberAlreadyExists  = errors.New("user is already a member")
	ErrNoAdminForSuccession = errors.New("promote an admin before the owner can leave")

	ErrCrossBoardMove   = errors.New("task cannot move to a column on a different board")
	ErrTagBoardMismatch = errors.New("tag belongs to a different board than the task")

	ErrDirectChatMemberCount = errors.New("direct chats require exactly two distinct members")
	ErrDirectChatImmutable   = errors.New("direct chats cannot be renamed")
	ErrNotChatMember         = errors.New("user is not a member of this chat")
	ErrEmptyMessage          = errors.New("message content is required")
	ErrMessageTooLong        = errors.New("message content exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength    = 255
	MaxTitleLength   = 255
	MaxMessageLength = 4000
)
