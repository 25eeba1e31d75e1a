package model

import (
	"time"

	"github.com/kinkando/school-portal-service/pkg/profile"
)

type AuditAction string

const (
	AuditImpersonate AuditAction = "impersonate"
	AuditRestore     AuditAction = "restore"
)

type AuditEvent struct {
	Action     AuditAction  `json:"action"`
	ActorID    string       `json:"actorID"`
	TargetID   string       `json:"targetID"`
	TargetRole profile.Role `json:"targetRole"`
	SessionID  string       `json:"sessionID"`
	IP         string       `json:"ip"`
	CreatedAt  time.Time    `json:"createdAt"`
}
