package models

// Feedback bir katılımcının etkinlik değerlendirmesi.
// (event_id, participant_id) çifti için en fazla bir kayıt bulunur.
type Feedback struct {
	BaseModel
	EventID       uint         `gorm:"not null;uniqueIndex:idx_feedback_event_participant" json:"event_id"`
	ParticipantID uint         `gorm:"not null;uniqueIndex:idx_feedback_event_participant;index" json:"participant_id"`
	Participant   *Participant `gorm:"foreignKey:ParticipantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"participant,omitempty"`
	Rating        *int         `gorm:"type:smallint" json:"rating"`
	Comments      *string      `gorm:"type:text" json:"comments"`
}

// TableName "feedbacks" yerine tekil tablo adı kullanılır.
func (Feedback) TableName() string {
	return "feedback"
}
