package chat

// Target addresses a message to either a single user or a group, never both.
type Target struct {
	ReceiverUserID  *int64
	ReceiverGroupID *int64
}

// DirectTarget addresses a single user.
func DirectTarget(userID int64) Target {
	return Target{ReceiverUserID: &userID}
}

// GroupTarget addresses a group.
func GroupTarget(groupID int64) Target {
	return Target{ReceiverGroupID: &groupID}
}

// IsDirect reports whether the target is a single user.
func (t Target) IsDirect() bool {
	return t.ReceiverUserID != nil && t.ReceiverGroupID == nil
}

// IsGroup reports whether the target is a group.
func (t Target) IsGroup() bool {
	return t.ReceiverGroupID != nil && t.ReceiverUserID == nil
}

// Validate enforces the mutual-exclusion rule on the addressing fields.
func (t Target) Validate() error {
	if t.IsDirect() || t.IsGroup() {
		return nil
	}
	return ErrInvalidTarget
}
