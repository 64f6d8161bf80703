package models

// Material etkinliğe yüklenen dosyanın meta verisi. Dosyanın kendisi
// FilePath anahtarıyla dosya deposunda durur (her kayıt için tek nesne).
type Material struct {
	BaseModel
	EventID  uint    `gorm:"not null;index" json:"event_id"`
	Event    *Event  `gorm:"foreignKey:EventID" json:"-"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	FilePath string  `gorm:"type:varchar(512);uniqueIndex;not null" json:"file_path"`
	FileType *string `gorm:"type:varchar(255)" json:"file_type"`
	FileSize *int64  `json:"file_size"`
}
