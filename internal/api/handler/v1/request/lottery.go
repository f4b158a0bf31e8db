package request

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/lottery-api/internal/domain"
)

const (
	// 13 to 19 characters made of digits and spaces, with 13 to 19 digits among them.
	cardNumberPattern = `^(?=.{13,19}$)(?=(?:\D*\d){13,19}\D*$)[\d ]+$`
)

var (
	cardNumberExp = regexp2.MustCompile(cardNumberPattern, regexp2.None)
	expiryExp     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvExp        = regexp.MustCompile(`^\d{3,4}$`)

	errInvalidCardNumber = errors.New("please enter a valid card number")
)

type PurchaseRequest struct {
	Quantity   int    `json:"quantity"`
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

func (req *PurchaseRequest) Validate(maxQuantity int) error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(maxQuantity)),
		validation.Field(&req.CardNumber, validation.Required, validation.By(validCardNumber)),
		validation.Field(&req.ExpiryDate, validation.Required, validation.Match(expiryExp).Error("must be in MM/YY format")),
		validation.Field(&req.CVV, validation.Required, validation.Match(cvvExp).Error("must be 3 or 4 digits")),
	)
}

func validCardNumber(value interface{}) error {
	s, _ := value.(string)
	ok, err := cardNumberExp.MatchString(s)
	if err != nil || !ok {
		return errInvalidCardNumber
	}

	return nil
}

// Card returns the payment details with spaces removed from the card number.
func (req *PurchaseRequest) Card() domain.PaymentCard {
	return domain.PaymentCard{
		Number: strings.ReplaceAll(req.CardNumber, " ", ""),
		Expiry: req.ExpiryDate,
		CVV:    req.CVV,
	}
}

type AssignBallotRequest struct {
	DrawID uint `json:"draw_id"`
}

func (req *AssignBallotRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DrawID, validation.Required),
	)
}

type DrawTypeRequest struct {
	Name     string         `json:"name"`
	IsActive *bool          `json:"is_active"`
	Schedule map[string]int `json:"schedule"`
	Priority int            `json:"priority"`
}

func (req *DrawTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

// ToDomain parses the schedule selector. A missing is_active means active.
func (req *DrawTypeRequest) ToDomain() (domain.DrawType, error) {
	schedule, err := domain.ParseSchedule(req.Schedule)
	if err != nil {
		return domain.DrawType{}, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return domain.DrawType{
		Name:     strings.TrimSpace(req.Name),
		IsActive: active,
		Schedule: schedule,
		Priority: req.Priority,
	}, nil
}

type PrizeRequest struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Count  int    `json:"count"`
}

func (req *PrizeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Amount, validation.Min(int64(0)), validation.Max(domain.MaxPrizeAmount)),
		validation.Field(&req.Count, validation.Required, validation.Min(1), validation.Max(domain.MaxPrizeCount)),
	)
}

type DrawRequest struct {
	Date       string `json:"date"`
	DrawTypeID uint   `json:"drawtype_id"`
}

func (req *DrawRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Date, validation.Required, validation.Date(time.DateOnly)),
	)
}

func (req *DrawRequest) ParsedDate() (time.Time, error) {
	return time.Parse(time.DateOnly, req.Date)
}
