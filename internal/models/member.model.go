package models

type MemberTier string

const (
	TierFree    MemberTier = "free"
	TierSilver  MemberTier = "silver"
	TierGold    MemberTier = "gold"
	TierDiamond MemberTier = "diamond"
)

// ValidTier reports whether t is one of the known membership tiers.
func ValidTier(t MemberTier) bool {
	switch t {
	case TierFree, TierSilver, TierGold, TierDiamond:
		return true
	}
	return false
}

// Member is a customer account. Tier grants a pricing discount and
// feature set; free members can still book and pay per clean.
type Member struct {
	BaseUUIDModel
	Email     string     `gorm:"type:text;uniqueIndex;not null" json:"email"`
	FirstName string     `gorm:"type:text"                      json:"firstName"`
	LastName  string     `gorm:"type:text"                      json:"lastName"`
	Phone     string     `gorm:"type:text"                      json:"phone"`
	Tier      MemberTier `gorm:"type:text;default:'free'"       json:"tier"`
	IsActive  bool       `gorm:"type:bool;default:true"         json:"isActive"`
}
