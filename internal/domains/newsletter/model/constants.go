package model

const (
	// Title bounds
	MinTitleLength = 2
	MaxTitleLength = 80

	// La descrizione è la scheda mostrata ai brand nel marketplace:
	// limitata su entrambi i lati per tenere alta la qualità dei listing.
	MinDescriptionLength = 50
	MaxDescriptionLength = 300

	// Rate bounds (percentuali)
	MinRate = 0.0
	MaxRate = 100.0

	DefaultLanguage = "it"
)

// Categories ammesse per una newsletter (9 valori fissi).
var Categories = []interface{}{
	"Attualità",
	"Business",
	"Cultura e Società",
	"Finanza Personale",
	"Lifestyle",
	"Marketing",
	"Sport",
	"Tecnologia",
	"Altro",
}

// Cadences ammesse per la frequenza di invio.
var Cadences = []interface{}{
	"Giornaliera",
	"Settimanale",
	"Quindicinale",
	"Mensile",
	"Irregolare",
}
