package chat

import "errors"

var (
	// ErrInvalidTarget means the send request did not set exactly one of the
	// two addressing fields.
	ErrInvalidTarget = errors.New("exactly one of receiver_user_id and receiver_group_id must be set")

	// ErrNotGroupMember means the sender does not belong to the target group.
	ErrNotGroupMember = errors.New("sender is not a member of the group")
)
