package models

// Referral - связь "кто кого пригласил". Одна строка на приглашенного
// (уникальный индекс по referred_id закрывает и пару referrer/referred).
// IsEarningCredited переводится в true единственным атомарным UPDATE в
// ReferralService; бонус начисляется только если UPDATE затронул строку.
type Referral struct {
	BaseModel
	ReferrerID        string `gorm:"type:uuid;not null;index"`
	ReferredID        string `gorm:"type:uuid;not null;uniqueIndex"`
	IsEarningCredited bool   `gorm:"not null;default:false"`

	Referrer *User `gorm:"foreignKey:ReferrerID"`
	Referred *User `gorm:"foreignKey:ReferredID"`
}
