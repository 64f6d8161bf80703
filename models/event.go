package models

import "time"

// Event bir düzenleyiciye ait etkinlik.
type Event struct {
	BaseModel
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Location    *string   `gorm:"type:varchar(255)" json:"location"`
	StartDate   time.Time `gorm:"not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`

	// İlişkiler
	Participants []Participant `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"participants,omitempty"`
	Materials    []Material    `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"materials,omitempty"`
	Feedback     []Feedback    `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"feedback,omitempty"`
}

// IsOwnedBy etkinliğin verilen kullanıcıya ait olup olmadığını söyler.
func (e *Event) IsOwnedBy(userID uint) bool {
	return e != nil && userID != 0 && e.OwnerID == userID
}
