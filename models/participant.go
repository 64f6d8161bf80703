package models

// ParticipantStatus katılımcının davet durumunu tanımlar.
type ParticipantStatus string

const (
	ParticipantStatusInvited   ParticipantStatus = "invited"
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusDeclined  ParticipantStatus = "declined"
	ParticipantStatusAttended  ParticipantStatus = "attended"
)

// ParticipantStatuses geçerli tüm durumlar. Geçişler serbesttir.
var ParticipantStatuses = []ParticipantStatus{
	ParticipantStatusInvited,
	ParticipantStatusConfirmed,
	ParticipantStatusDeclined,
	ParticipantStatusAttended,
}

func (s ParticipantStatus) Valid() bool {
	for _, v := range ParticipantStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Participant bir etkinliğe davet edilen kişi.
type Participant struct {
	BaseModel
	EventID uint              `gorm:"not null;index" json:"event_id"`
	Event   *Event            `gorm:"foreignKey:EventID" json:"-"`
	Email   string            `gorm:"type:varchar(255);not null;index" json:"email"`
	Name    string            `gorm:"type:varchar(255);not null" json:"name"`
	Status  ParticipantStatus `gorm:"type:varchar(20);not null;default:'invited';index" json:"status"`
}
