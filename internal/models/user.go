package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleAgent Role = "AGENT"
)

// ParseRole normalizes a role claim. The legacy system stored agents
// under the role name "User"; both spellings are accepted.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "AGENT", "USER":
		return RoleAgent, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is read-only from the deals core: lookups resolve agent
// references, nothing here mutates a user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) GetID() string {
	return u.ID.String()
}
