package model

import "strings"

type LockStatus string

const (
	LockStatusOpen   LockStatus = "Open"
	LockStatusClosed LockStatus = "Closed"
)

func (s LockStatus) Valid() bool {
	return s == LockStatusOpen || s == LockStatusClosed
}

// Lock is one provisioned access point. The pool is fixed at startup;
// only AdminEmail, Name, Status and Members mutate afterwards.
type Lock struct {
	Number           int        `json:"lockNumber"`
	RegistrationCode string     `json:"registrationCode"`
	InviteCode       string     `json:"inviteCode"`
	AdminEmail       string     `json:"adminEmail"`
	Name             string     `json:"lockName"`
	Status           LockStatus `json:"status"`
	Members          []string   `json:"members"`
}

// HasAdmin reports whether an admin is assigned. Whitespace-only
// admin emails count as unassigned.
func (l *Lock) HasAdmin() bool {
	return strings.TrimSpace(l.AdminEmail) != ""
}

func (l *Lock) IsMember(email string) bool {
	for _, m := range l.Members {
		if m == email {
			return true
		}
	}
	return false
}

// LockSummary is the per-user view returned by the lock listing endpoint.
type LockSummary struct {
	LockName         string `json:"lockName"`
	RegistrationCode string `json:"registrationCode"`
	IsAdmin          bool   `json:"isAdmin"`
}
