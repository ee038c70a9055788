package models

import (
	"time"

	"github.com/google/uuid"
)

// Additive is a row of the base additive reference table.
type Additive struct {
	ID                 uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	ENumber            string     `gorm:"size:16;index" json:"e_number"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Synonyms           StringList `gorm:"type:text" json:"synonyms"`
	Tier               string     `gorm:"size:16;not null;default:'none'" json:"tier"`
	Origin             string     `gorm:"size:32" json:"origin"`
	ChildWarning       bool       `gorm:"not null;default:false" json:"child_warning"`
	SulphiteAllergen   bool       `gorm:"not null;default:false" json:"sulphite_allergen"`
	ShortDescription   string     `gorm:"type:text" json:"short_description"`
	FullDescription    string     `gorm:"type:text" json:"full_description"`
	Summary            string     `gorm:"type:text" json:"summary"`
	TypicalUses        string     `gorm:"type:text" json:"typical_uses"`
	IsVitaminOrMineral bool       `gorm:"not null;default:false" json:"is_vitamin_or_mineral"`
	Position           int        `gorm:"not null;default:0" json:"position"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (Additive) TableName() string {
	return "additives"
}

// AdditiveOverride carries curated corrections. Empty strings and nil flags leave the base value alone.
type AdditiveOverride struct {
	ID                 uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	ENumber            string     `gorm:"size:16;index" json:"e_number"`
	Name               string     `gorm:"size:255" json:"name"`
	Synonyms           StringList `gorm:"type:text" json:"synonyms"`
	Tier               string     `gorm:"size:16" json:"tier"`
	Origin             string     `gorm:"size:32" json:"origin"`
	ChildWarning       *bool      `json:"child_warning"`
	SulphiteAllergen   *bool      `json:"sulphite_allergen"`
	ShortDescription   string     `gorm:"type:text" json:"short_description"`
	FullDescription    string     `gorm:"type:text" json:"full_description"`
	Summary            string     `gorm:"type:text" json:"summary"`
	TypicalUses        string     `gorm:"type:text" json:"typical_uses"`
	IsVitaminOrMineral *bool      `json:"is_vitamin_or_mineral"`
	Position           int        `gorm:"not null;default:0" json:"position"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (AdditiveOverride) TableName() string {
	return "additive_overrides"
}

// UltraProcessedIngredient is a row of the ultra-processed ingredient table.
type UltraProcessedIngredient struct {
	ID                uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	Name              string     `gorm:"size:255;not null" json:"name"`
	Category          string     `gorm:"size:100" json:"category"`
	NovaGroup         int        `gorm:"not null;default:4" json:"nova_group"`
	ProcessingPenalty int        `gorm:"not null;default:0" json:"processing_penalty"`
	Concerns          string     `gorm:"type:text" json:"concerns"`
	WhatItIs          string     `gorm:"type:text" json:"what_it_is"`
	WhyUsed           string     `gorm:"type:text" json:"why_used"`
	Synonyms          StringList `gorm:"type:text" json:"synonyms"`
	Position          int        `gorm:"not null;default:0" json:"position"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (UltraProcessedIngredient) TableName() string {
	return "ultra_processed_ingredients"
}

// ReferenceVersion records every reference snapshot written to the database. The row with
// the highest ID is the live one.
type ReferenceVersion struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Version       string    `gorm:"size:64;not null;index" json:"version"`
	Source        string    `gorm:"size:255" json:"source"`
	AdditiveCount int       `json:"additive_count"`
	OverrideCount int       `json:"override_count"`
	UltraCount    int       `json:"ultra_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ReferenceVersion) TableName() string {
	return "reference_versions"
}
