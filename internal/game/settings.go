// internal/game/settings.go
package game

import "fmt"

// GameSettings defines the per-room economic configuration. The host may
// update settings while the room is still in the lobby phase.
type GameSettings struct {
	StartingCash  int     `json:"startingCash"`
	GoSalaryBase  int     `json:"goSalaryBase"`
	InflationRate float64 `json:"inflationRate"` // GO salary growth per completed round

	FlatTax         int     `json:"flatTax"`
	NetWorthTaxRate float64 `json:"netWorthTaxRate"`
	BailAmount      int     `json:"bailAmount"`

	MaxLoanPercent   float64 `json:"maxLoanPercent"`
	LoanInterestRate float64 `json:"loanInterestRate"` // per end-of-turn
	MinLoanAmount    int     `json:"minLoanAmount"`
	IOUInterestRate  float64 `json:"iouInterestRate"` // per completed round

	RentNegotiation   bool `json:"rentNegotiation"`
	Restructuring     bool `json:"restructuring"`
	Chapter11Turns    int  `json:"chapter11Turns"`
	EconomicEvents    bool `json:"economicEvents"`
	Jackpot           bool `json:"jackpot"`
	InsuranceRounds   int  `json:"insuranceRounds"`
	InsurancePremium  float64 `json:"insurancePremium"` // fraction of property price
	JackpotPayoutOdds float64 `json:"jackpotPayoutOdds"`
}

// DefaultSettings returns the standard ruleset.
func DefaultSettings() GameSettings {
	return GameSettings{
		StartingCash:      1500,
		GoSalaryBase:      200,
		InflationRate:     0,
		FlatTax:           200,
		NetWorthTaxRate:   0.10,
		BailAmount:        50,
		MaxLoanPercent:    0.5,
		LoanInterestRate:  0.05,
		MinLoanAmount:     50,
		IOUInterestRate:   0.05,
		RentNegotiation:   true,
		Restructuring:     true,
		Chapter11Turns:    5,
		EconomicEvents:    true,
		Jackpot:           true,
		InsuranceRounds:   5,
		InsurancePremium:  0.1,
		JackpotPayoutOdds: 0.3,
	}
}

// Update applies the provided settings map onto the receiver. Keys that are
// absent or nil keep their old value.
func (s *GameSettings) Update(newSettings map[string]interface{}) error {
	var ok bool

	assignBool := func(field *bool, key string) error {
		if val, exists := newSettings[key]; exists && val != nil {
			*field, ok = val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
		}
		return nil
	}

	assignInt := func(field *int, key string, minVal int) error {
		if val, exists := newSettings[key]; exists && val != nil {
			// JSON numbers arrive as float64
			floatVal, isFloat := val.(float64)
			if isFloat {
				*field = int(floatVal)
			} else {
				intVal, isInt := val.(int)
				if !isInt {
					return fmt.Errorf("invalid type for %s", key)
				}
				*field = intVal
			}
			if *field < minVal {
				return fmt.Errorf("%s must be at least %d", key, minVal)
			}
		}
		return nil
	}

	assignFloat := func(field *float64, key string) error {
		if val, exists := newSettings[key]; exists && val != nil {
			*field, ok = val.(float64)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			if *field < 0 {
				return fmt.Errorf("%s must be non-negative", key)
			}
		}
		return nil
	}

	if err := assignInt(&s.StartingCash, "startingCash", 1); err != nil {
		return err
	}
	if err := assignInt(&s.GoSalaryBase, "goSalaryBase", 0); err != nil {
		return err
	}
	if err := assignFloat(&s.InflationRate, "inflationRate"); err != nil {
		return err
	}
	if err := assignInt(&s.FlatTax, "flatTax", 0); err != nil {
		return err
	}
	if err := assignFloat(&s.NetWorthTaxRate, "netWorthTaxRate"); err != nil {
		return err
	}
	if err := assignInt(&s.BailAmount, "bailAmount", 0); err != nil {
		return err
	}
	if err := assignFloat(&s.MaxLoanPercent, "maxLoanPercent"); err != nil {
		return err
	}
	if err := assignFloat(&s.LoanInterestRate, "loanInterestRate"); err != nil {
		return err
	}
	if err := assignInt(&s.MinLoanAmount, "minLoanAmount", 0); err != nil {
		return err
	}
	if err := assignFloat(&s.IOUInterestRate, "iouInterestRate"); err != nil {
		return err
	}
	if err := assignBool(&s.RentNegotiation, "rentNegotiation"); err != nil {
		return err
	}
	if err := assignBool(&s.Restructuring, "restructuring"); err != nil {
		return err
	}
	if err := assignInt(&s.Chapter11Turns, "chapter11Turns", 1); err != nil {
		return err
	}
	if err := assignBool(&s.EconomicEvents, "economicEvents"); err != nil {
		return err
	}
	if err := assignBool(&s.Jackpot, "jackpot"); err != nil {
		return err
	}
	if err := assignInt(&s.InsuranceRounds, "insuranceRounds", 1); err != nil {
		return err
	}
	if err := assignFloat(&s.InsurancePremium, "insurancePremium"); err != nil {
		return err
	}
	if err := assignFloat(&s.JackpotPayoutOdds, "jackpotPayoutOdds"); err != nil {
		return err
	}
	return nil
}
