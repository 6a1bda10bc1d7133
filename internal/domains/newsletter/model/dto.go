package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// =====================================================
// CREATOR REQUEST DTOs
// =====================================================

// CreateNewsletterRequest è il payload di registrazione di una newsletter.
// I messaggi di errore sono in italiano: finiscono inline nei form del frontend.
type CreateNewsletterRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Language         string  `json:"language"`
	SignupURL        string  `json:"signup_url"`
	Cadence          *string `json:"cadence"`
	AudienceSize     int     `json:"audience_size"`
	OpenRate         float64 `json:"open_rate"`
	CtrRate          float64 `json:"ctr_rate"`
	SponsorshipPrice int     `json:"sponsorship_price"`
	ContactEmail     string  `json:"contact_email"`
	LinkedinProfile  *string `json:"linkedin_profile"`
	AuthorFirstName  string  `json:"author_first_name"`
	AuthorLastName   string  `json:"author_last_name"`
	AuthorEmail      string  `json:"author_email"`
}

func (r CreateNewsletterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("Il nome è obbligatorio"),
			validation.RuneLength(MinTitleLength, 0).Error(fmt.Sprintf("Il nome deve essere di almeno %d caratteri", MinTitleLength)),
			validation.RuneLength(0, MaxTitleLength).Error(fmt.Sprintf("Il nome può contenere al massimo %d caratteri", MaxTitleLength)),
		),
		validation.Field(&r.Description,
			validation.Required.Error("La descrizione è obbligatoria"),
			validation.RuneLength(MinDescriptionLength, 0).Error(fmt.Sprintf("La descrizione deve essere di almeno %d caratteri", MinDescriptionLength)),
			validation.RuneLength(0, MaxDescriptionLength).Error(fmt.Sprintf("La descrizione può contenere al massimo %d caratteri", MaxDescriptionLength)),
		),
		validation.Field(&r.Category,
			validation.Required.Error("La categoria è obbligatoria"),
			validation.In(Categories...).Error("Seleziona una categoria valida"),
		),
		validation.Field(&r.SignupURL,
			validation.Required.Error("L'URL di iscrizione è obbligatorio"),
			is.URL.Error("Inserisci un URL valido"),
			validation.By(requireHTTPS),
		),
		validation.Field(&r.Cadence,
			validation.In(Cadences...).Error("Frequenza di invio non valida"),
		),
		validation.Field(&r.AudienceSize,
			validation.Min(0).Error("Il numero di iscritti non può essere negativo"),
		),
		validation.Field(&r.OpenRate,
			validation.Min(MinRate).Error("Il tasso di apertura deve essere tra 0 e 100"),
			validation.Max(MaxRate).Error("Il tasso di apertura deve essere tra 0 e 100"),
		),
		validation.Field(&r.CtrRate,
			validation.Min(MinRate).Error("Il CTR deve essere tra 0 e 100"),
			validation.Max(MaxRate).Error("Il CTR deve essere tra 0 e 100"),
		),
		validation.Field(&r.SponsorshipPrice,
			validation.Min(0).Error("Il prezzo di sponsorizzazione non può essere negativo"),
		),
		validation.Field(&r.ContactEmail,
			validation.Required.Error("L'email di contatto è obbligatoria"),
			is.Email.Error("Inserisci un indirizzo email valido"),
		),
		validation.Field(&r.LinkedinProfile,
			validation.By(requireLinkedinURL),
		),
		validation.Field(&r.AuthorFirstName,
			validation.Required.Error("Il nome dell'autore è obbligatorio"),
		),
		validation.Field(&r.AuthorLastName,
			validation.Required.Error("Il cognome dell'autore è obbligatorio"),
		),
		validation.Field(&r.AuthorEmail,
			validation.Required.Error("L'email dell'autore è obbligatoria"),
			is.Email.Error("Inserisci un indirizzo email valido"),
		),
	)
}

// UpdateNewsletterRequest è una patch: solo i campi presenti (puntatore
// non nil) vengono applicati. La presenza esplicita serve a decidere il
// ritorno in revisione senza ambiguità.
type UpdateNewsletterRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category"`
	Language         *string  `json:"language"`
	SignupURL        *string  `json:"signup_url"`
	Cadence          *string  `json:"cadence"`
	AudienceSize     *int     `json:"audience_size"`
	OpenRate         *float64 `json:"open_rate"`
	CtrRate          *float64 `json:"ctr_rate"`
	SponsorshipPrice *int     `json:"sponsorship_price"`
	ContactEmail     *string  `json:"contact_email"`
	LinkedinProfile  *string  `json:"linkedin_profile"`
	AuthorFirstName  *string  `json:"author_first_name"`
	AuthorLastName   *string  `json:"author_last_name"`
	AuthorEmail      *string  `json:"author_email"`
}

func (r UpdateNewsletterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("Il nome è obbligatorio"),
			validation.RuneLength(MinTitleLength, 0).Error(fmt.Sprintf("Il nome deve essere di almeno %d caratteri", MinTitleLength)),
			validation.RuneLength(0, MaxTitleLength).Error(fmt.Sprintf("Il nome può contenere al massimo %d caratteri", MaxTitleLength)),
		),
		validation.Field(&r.Description,
			validation.NilOrNotEmpty.Error("La descrizione è obbligatoria"),
			validation.RuneLength(MinDescriptionLength, 0).Error(fmt.Sprintf("La descrizione deve essere di almeno %d caratteri", MinDescriptionLength)),
			validation.RuneLength(0, MaxDescriptionLength).Error(fmt.Sprintf("La descrizione può contenere al massimo %d caratteri", MaxDescriptionLength)),
		),
		validation.Field(&r.Category,
			validation.In(Categories...).Error("Seleziona una categoria valida"),
		),
		validation.Field(&r.SignupURL,
			validation.NilOrNotEmpty.Error("L'URL di iscrizione è obbligatorio"),
			is.URL.Error("Inserisci un URL valido"),
			validation.By(requireHTTPS),
		),
		validation.Field(&r.Cadence,
			validation.In(Cadences...).Error("Frequenza di invio non valida"),
		),
		validation.Field(&r.AudienceSize,
			validation.Min(0).Error("Il numero di iscritti non può essere negativo"),
		),
		validation.Field(&r.OpenRate,
			validation.Min(MinRate).Error("Il tasso di apertura deve essere tra 0 e 100"),
			validation.Max(MaxRate).Error("Il tasso di apertura deve essere tra 0 e 100"),
		),
		validation.Field(&r.CtrRate,
			validation.Min(MinRate).Error("Il CTR deve essere tra 0 e 100"),
			validation.Max(MaxRate).Error("Il CTR deve essere tra 0 e 100"),
		),
		validation.Field(&r.SponsorshipPrice,
			validation.Min(0).Error("Il prezzo di sponsorizzazione non può essere negativo"),
		),
		validation.Field(&r.ContactEmail,
			is.Email.Error("Inserisci un indirizzo email valido"),
		),
		validation.Field(&r.LinkedinProfile,
			validation.By(requireLinkedinURL),
		),
		validation.Field(&r.AuthorEmail,
			is.Email.Error("Inserisci un indirizzo email valido"),
		),
	)
}

// TouchesReviewedFields: true se la patch tocca i campi che, su una
// newsletter approvata, fanno ripartire la revisione (metriche e prezzo).
func (r UpdateNewsletterRequest) TouchesReviewedFields() bool {
	return r.OpenRate != nil ||
		r.CtrRate != nil ||
		r.Cadence != nil ||
		r.SignupURL != nil ||
		r.SponsorshipPrice != nil
}

// IsEmpty: nessun campo presente nella patch.
func (r UpdateNewsletterRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil &&
		r.Language == nil && r.SignupURL == nil && r.Cadence == nil &&
		r.AudienceSize == nil && r.OpenRate == nil && r.CtrRate == nil &&
		r.SponsorshipPrice == nil && r.ContactEmail == nil &&
		r.LinkedinProfile == nil && r.AuthorFirstName == nil &&
		r.AuthorLastName == nil && r.AuthorEmail == nil
}

// ApplyTo riversa i campi presenti sulla entity.
func (r UpdateNewsletterRequest) ApplyTo(n *Newsletter) {
	if r.Title != nil {
		n.Title = *r.Title
	}
	if r.Description != nil {
		n.Description = *r.Description
	}
	if r.Category != nil {
		n.Category = *r.Category
	}
	if r.Language != nil {
		n.Language = *r.Language
	}
	if r.SignupURL != nil {
		n.SignupURL = *r.SignupURL
	}
	if r.Cadence != nil {
		n.Cadence = r.Cadence
	}
	if r.AudienceSize != nil {
		n.AudienceSize = *r.AudienceSize
	}
	if r.OpenRate != nil {
		n.OpenRate = *r.OpenRate
	}
	if r.CtrRate != nil {
		n.CtrRate = *r.CtrRate
	}
	if r.SponsorshipPrice != nil {
		n.SponsorshipPrice = *r.SponsorshipPrice
	}
	if r.ContactEmail != nil {
		n.ContactEmail = *r.ContactEmail
	}
	if r.LinkedinProfile != nil {
		n.LinkedinProfile = r.LinkedinProfile
	}
	if r.AuthorFirstName != nil {
		n.AuthorFirstName = *r.AuthorFirstName
	}
	if r.AuthorLastName != nil {
		n.AuthorLastName = *r.AuthorLastName
	}
	if r.AuthorEmail != nil {
		n.AuthorEmail = *r.AuthorEmail
	}
}

// =====================================================
// ADMIN REQUEST DTOs
// =====================================================

type AdminListNewslettersRequest struct {
	Status *string `form:"status"`
	Page   int     `form:"page"`
	Limit  int     `form:"limit"`
}

func (r *AdminListNewslettersRequest) Normalize() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	if r.Status != nil && !ReviewStatus(*r.Status).IsValid() {
		return NewInvalidStatusError(*r.Status)
	}
	return nil
}

type RejectNewsletterRequest struct {
	Reason string `json:"reason"`
}

func (r RejectNewsletterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason,
			validation.Required.Error("Il motivo del rifiuto è obbligatorio"),
			validation.RuneLength(0, 500).Error("Il motivo può contenere al massimo 500 caratteri"),
		),
	)
}

// =====================================================
// MARKETPLACE DTOs
// =====================================================

type MarketplaceListRequest struct {
	Category *string `form:"category"`
	Page     int     `form:"page"`
	Limit    int     `form:"limit"`
}

func (r *MarketplaceListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 50 {
		r.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// UpdateResult avvisa il chiamante dell'effetto collaterale di revisione:
// "la tua newsletter tornerà in revisione dopo la modifica".
type UpdateResult struct {
	Newsletter       *Newsletter `json:"newsletter"`
	ReturnedToReview bool        `json:"returned_to_review"`
}

// MarketplaceStats è l'aggregato per la dashboard admin.
type MarketplaceStats struct {
	TotalNewsletters int             `json:"total_newsletters"`
	TotalApproved    int             `json:"total_approved"`
	TotalInReview    int             `json:"total_in_review"`
	TotalRejected    int             `json:"total_rejected"`
	TotalAudience    int64           `json:"total_audience"`
	AvgOpenRate      decimal.Decimal `json:"avg_open_rate"`
	TotalSponsorship decimal.Decimal `json:"total_sponsorship_value"` // euro, sulle sole approvate
}

// =====================================================
// URL validators
// =====================================================

func requireHTTPS(value interface{}) error {
	raw, ok := indirectString(value)
	if !ok || raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" {
		return errors.New("L'URL deve usare HTTPS")
	}
	return nil
}

func requireLinkedinURL(value interface{}) error {
	raw, ok := indirectString(value)
	if !ok || raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" {
		return errors.New("Inserisci un profilo LinkedIn valido")
	}

	host := strings.ToLower(parsed.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return errors.New("Inserisci un profilo LinkedIn valido")
	}
	return nil
}

func indirectString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", true
		}
		return *v, true
	}
	return "", false
}
