package models

import "gorm.io/gorm"

// Job is a colony work assignment.
type Job struct {
	TeamLeaderID  uint              `json:"team_leader_id" gorm:"not null;index"`
	TeamLeader    *User             `json:"team_leader,omitempty" gorm:"foreignKey:TeamLeaderID"`
	Job           string            `json:"job" gorm:"type:text"`
	WorkSize      int               `json:"work_size"`
	Collaborators []JobCollaborator `json:"collaborators" gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	IsFinished    bool              `json:"is_finished" gorm:"not null;default:false"`
	gorm.Model                      // Embed gorm.Model for ID, CreatedAt, UpdatedAt, DeletedAt
}

// JobCollaborator links a user to a job. Position keeps the collaborator order
// and starts at 1.
type JobCollaborator struct {
	JobID    uint  `json:"-" gorm:"primaryKey"`
	Position int   `json:"position" gorm:"primaryKey"`
	UserID   uint  `json:"user_id" gorm:"not null;index"`
	User     *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// CollaboratorIDs returns the collaborator user ids in stored order.
func (j *Job) CollaboratorIDs() []uint {
	ids := make([]uint, 0, len(j.Collaborators))
	for _, c := range j.Collaborators {
		ids = append(ids, c.UserID)
	}
	return ids
}
