package tender

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tenderiq/core/internal/models"
)

var (
	emdAmountRe  = regexp.MustCompile(`(?i)(?:EMD|Earnest\s+Money(?:\s+Deposit)?)[^0-9%₹]{0,20}₹?\s*([0-9]+(?:\.[0-9]+)?)\s*(crore|cr|lakhs?|l)\b`)
	emdPercentRe = regexp.MustCompile(`(?i)(?:EMD|Earnest\s+Money(?:\s+Deposit)?)[^0-9%]{0,20}([0-9]+(?:\.[0-9]+)?)\s*%`)
	pbgAmountRe  = regexp.MustCompile(`(?i)(?:PBG|Performance\s+(?:Bank\s+)?Guarantee)[^0-9%₹]{0,20}₹?\s*([0-9]+(?:\.[0-9]+)?)\s*(crore|cr|lakhs?|l)\b`)
	pbgPercentRe = regexp.MustCompile(`(?i)(?:PBG|Performance\s+(?:Bank\s+)?Guarantee)[^0-9%]{0,20}([0-9]+(?:\.[0-9]+)?)\s*%`)
)

type FinancialExtractor struct{}

func NewFinancialExtractor() *FinancialExtractor {
	return &FinancialExtractor{}
}

// ExtractFinancial pulls contract value, EMD and PBG requirements from the
// raw text. Percentages outside (0, 100] are discarded as noise.
func (e *FinancialExtractor) ExtractFinancial(text string) *models.FinancialRequirements {
	fin := &models.FinancialRequirements{}
	confidence := 50.0

	if value := ExtractMoney(text); value != nil {
		fin.ContractValue = value
		confidence += 15
	}

	if amount := moneyFromMatch(emdAmountRe.FindStringSubmatch(text)); amount != nil {
		fin.EMDAmount = amount
		confidence += 15
	}
	if pct := percentFromMatch(emdPercentRe.FindStringSubmatch(text)); pct != nil {
		fin.EMDPercentage = pct
		confidence += 10
	}

	if amount := moneyFromMatch(pbgAmountRe.FindStringSubmatch(text)); amount != nil {
		fin.PerformanceBankGuarantee = amount
	}
	if pct := percentFromMatch(pbgPercentRe.FindStringSubmatch(text)); pct != nil {
		fin.PBGPercentage = pct
		confidence += 10
	}

	if confidence > 100 {
		confidence = 100
	}
	fin.ExtractionConfidence = confidence

	return fin
}

func moneyFromMatch(m []string) *models.MoneyAmount {
	if m == nil {
		return nil
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return nil
	}
	unit := strings.ToLower(m[2])
	if unit == "crore" || unit == "cr" {
		amount *= 100
	}
	return &models.MoneyAmount{
		Amount:      amount,
		Currency:    "INR",
		DisplayText: strings.TrimSpace(m[0]),
	}
}

func percentFromMatch(m []string) *float64 {
	if m == nil {
		return nil
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil || pct <= 0 || pct > 100 {
		return nil
	}
	return &pct
}
