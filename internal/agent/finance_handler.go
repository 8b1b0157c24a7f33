package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/motoria/dealer-agent/internal/catalog"
	"github.com/motoria/dealer-agent/internal/finance"
	"github.com/motoria/dealer-agent/internal/llm"
	"github.com/motoria/dealer-agent/internal/utils"
)

const defaultTermYears = 5

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*|\\s*```")

// FinanceHandler extracts financing parameters from the query, resolves a
// mentioned car against the catalog when no price is given, and runs the
// amortization engine. The engine is never called with invalid inputs: the
// handler emits a clarifying prompt first.
type FinanceHandler struct {
	provider   llm.Provider
	store      *catalog.Store
	annualRate float64
}

func NewFinanceHandler(provider llm.Provider, store *catalog.Store, annualRate float64) *FinanceHandler {
	if annualRate <= 0 {
		annualRate = finance.DefaultAnnualRate
	}
	return &FinanceHandler{provider: provider, store: store, annualRate: annualRate}
}

// extraction holds the parsed generation output. Nil fields were MISSING or
// unparseable.
type extraction struct {
	price       *float64
	downPayment *float64
	termYears   *int
	carName     string
}

func (h *FinanceHandler) Handle(ctx context.Context, query, history string) *Result {
	params, err := h.extract(ctx, query, history)
	if err != nil {
		utils.Zlog.Warn("Financing parameter extraction failed", zap.Error(err))
		return &Result{Text: needDataResponse}
	}

	// Down payment is always required; there is no recovery for it.
	if params.downPayment == nil {
		return &Result{Text: missingDownPaymentResponse}
	}

	price := params.price
	if price == nil {
		if params.carName == "" {
			return &Result{Text: needDataResponse}
		}
		rec, ok := h.store.ByName(params.carName)
		if !ok {
			return &Result{Text: fmt.Sprintf(
				"I couldn't find %q in our catalog. Could you check the name or share the car's price? "+
					"I already have your down payment of $%.0f.", params.carName, *params.downPayment)}
		}
		price = &rec.Price
	}

	// Out-of-range or missing terms recover to the default; the engine
	// itself would reject them.
	term := defaultTermYears
	if params.termYears != nil && *params.termYears >= finance.MinTermYears && *params.termYears <= finance.MaxTermYears {
		term = *params.termYears
	}

	if *params.downPayment > *price {
		return &Result{Text: fmt.Sprintf(
			"Your down payment of $%.0f is higher than the car's price of $%.0f. "+
				"Could you confirm the amounts?", *params.downPayment, *price)}
	}

	plan, err := finance.Calculate(*price, *params.downPayment, h.annualRate, term)
	if err != nil {
		// Inputs were validated above; reaching this point is unexpected.
		utils.Zlog.Error("Financing calculation failed despite validated inputs", zap.Error(err))
		return &Result{Text: needDataResponse}
	}

	summary := finance.DescribePlan(plan, *price, *params.downPayment)
	text, err := h.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: phrasingSystemPrompt},
		{Role: llm.RoleUser, Content: summary},
	})
	if err != nil {
		utils.Zlog.Warn("Financing phrasing failed, using deterministic summary", zap.Error(err))
		text = summary
	}

	utils.Zlog.Info("Financing plan calculated",
		zap.Float64("monthly_payment", plan.MonthlyPayment),
		zap.Int("term_months", plan.TermMonths))
	return &Result{Text: text, FinancingPlan: &plan}
}

// extract asks the generation capability for the financing parameters as
// strict JSON and parses the reply defensively.
func (h *FinanceHandler) extract(ctx context.Context, query, history string) (*extraction, error) {
	out, err := h.provider.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: extractionSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(extractionPrompt, userContent(query, history))},
	})
	if err != nil {
		return nil, err
	}
	return parseExtraction(out)
}

// parseExtraction tolerates code-fence wrapping and mixed string/number
// values. A literal "MISSING" (or anything unparseable) leaves the field nil.
func parseExtraction(raw string) (*extraction, error) {
	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(raw, ""))

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("extraction output is not valid JSON: %w", err)
	}

	ex := &extraction{
		price:       numberField(fields, "price"),
		downPayment: numberField(fields, "down_payment"),
		carName:     nameField(fields, "car_name"),
	}
	if years := numberField(fields, "term_years"); years != nil {
		term := int(*years)
		ex.termYears = &term
	}
	return ex, nil
}

func numberField(fields map[string]any, key string) *float64 {
	switch v := fields[key].(type) {
	case float64:
		return &v
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		s = strings.TrimPrefix(s, "$")
		if s == "" || strings.EqualFold(s, "MISSING") {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func nameField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "MISSING") {
		return ""
	}
	return v
}
