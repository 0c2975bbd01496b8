package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSheetName(t *testing.T) {
	testCases := []struct {
		t        time.Time
		expected string
	}{
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), "enero 2024"},
		{time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC), "septiembre 2023"},
		{time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC), "diciembre 2023"},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.expected, func(t *testing.T) {
			assert.Equal(t, testCase.expected, SheetName(testCase.t))
		})
	}
}

func TestEntry_Validate(t *testing.T) {
	valid := Entry{
		Date:        "27-12-2023",
		Description: "groceries",
		Tag:         "varios",
		Form:        "banesco",
		AmountUSD:   "24,20",
	}

	assert.NoError(t, valid.Validate())

	bs := valid
	bs.AmountUSD = ""
	bs.AmountBs = "880,00"
	bs.Rate = "36,36"
	assert.NoError(t, bs.Validate())

	testCases := map[string]func(e *Entry){
		"MissingDate":        func(e *Entry) { e.Date = "" },
		"WrongDateLayout":    func(e *Entry) { e.Date = "2023-12-27" },
		"MissingDescription": func(e *Entry) { e.Description = "" },
		"MissingTag":         func(e *Entry) { e.Tag = "" },
		"MissingForm":        func(e *Entry) { e.Form = "" },
		"MissingAmount":      func(e *Entry) { e.AmountUSD = "" },
	}

	for name, modify := range testCases {
		modify := modify

		t.Run(name, func(t *testing.T) {
			entry := valid
			modify(&entry)

			assert.Error(t, entry.Validate())
		})
	}
}
