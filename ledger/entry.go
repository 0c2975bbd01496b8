package ledger

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the date format entries are recorded with.
const DateLayout = "02-01-2006"

var months = [12]string{
	"enero",
	"febrero",
	"marzo",
	"abril",
	"mayo",
	"junio",
	"julio",
	"agosto",
	"septiembre",
	"octubre",
	"noviembre",
	"diciembre",
}

// SheetName returns the name of the monthly sheet t belongs to (eg. "enero 2024").
func SheetName(t time.Time) string {
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}

// Entry is a single ledger record.
//
// Amounts are kept as entered (eg. "24,20"): the spreadsheet does the parsing.
type Entry struct {
	Date        string `json:"date" validate:"required,datetime=02-01-2006"`
	Description string `json:"description" validate:"required"`
	Tag         string `json:"tag" validate:"required"`
	Form        string `json:"form" validate:"required"`

	Rate      string `json:"rate,omitempty"`
	AmountUSD string `json:"amountUSD,omitempty" validate:"required_without=AmountBs"`
	AmountBs  string `json:"amountBs,omitempty" validate:"required_without=AmountUSD"`
}

var validate = validator.New()

// Validate validates the entry.
func (e Entry) Validate() error {
	return validate.Struct(e)
}
