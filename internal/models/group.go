package models

import "time"

// Group represents a chat group. Membership lives in the group_members join
// table and is always resolved live, never cached on the entity.
type Group struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatorID int64     `db:"creator_id" json:"creator_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
