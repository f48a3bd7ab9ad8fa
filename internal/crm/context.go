package crm

import (
	"context"
	"fmt"
)

// OpportunityContext is the grounding snapshot of a deal.
type OpportunityContext struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Stage       string  `json:"stage"`
	Amount      float64 `json:"amount"`
	CloseDate   string  `json:"closeDate"`
	Probability float64 `json:"probability"`
	NextStep    string  `json:"nextStep"`
	Owner       string  `json:"owner"`
	AccountID   string  `json:"accountId"`
	Type        string  `json:"type"`
}

// AccountContext is the grounding snapshot of a customer account.
type AccountContext struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Industry      string  `json:"industry"`
	Type          string  `json:"type"`
	Employees     float64 `json:"employees"`
	AnnualRevenue float64 `json:"annualRevenue"`
}

// EntityContext bundles whichever grounding records the scope called for.
type EntityContext struct {
	Opportunity *OpportunityContext `json:"opportunity,omitempty"`
	Account     *AccountContext     `json:"account,omitempty"`
}

// FetchAccountContext pulls the account grounding fields.
func FetchAccountContext(ctx context.Context, c Client, accountID string) (*AccountContext, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Name, Industry, Type, NumberOfEmployees, AnnualRevenue FROM Account WHERE Id = '%s'",
		EscapeSOQL(accountID),
	)
	res, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("account %s not found", accountID)
	}

	rec := res.Records[0]
	return &AccountContext{
		ID:            rec.StringField("Id"),
		Name:          rec.StringField("Name"),
		Industry:      rec.StringField("Industry"),
		Type:          rec.StringField("Type"),
		Employees:     rec.FloatField("NumberOfEmployees"),
		AnnualRevenue: rec.FloatField("AnnualRevenue"),
	}, nil
}

// FetchOpportunityContext pulls the opportunity grounding fields plus its
// account.
func FetchOpportunityContext(ctx context.Context, c Client, opportunityID string) (*EntityContext, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Name, StageName, Amount, CloseDate, Probability, NextStep, Owner.Name, AccountId, Type "+
			"FROM Opportunity WHERE Id = '%s'",
		EscapeSOQL(opportunityID),
	)
	res, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("opportunity %s not found", opportunityID)
	}

	rec := res.Records[0]
	opp := &OpportunityContext{
		ID:          rec.StringField("Id"),
		Name:        rec.StringField("Name"),
		Stage:       rec.StringField("StageName"),
		Amount:      rec.FloatField("Amount"),
		CloseDate:   rec.StringField("CloseDate"),
		Probability: rec.FloatField("Probability"),
		NextStep:    rec.StringField("NextStep"),
		Owner:       rec.NestedStringField("Owner", "Name"),
		AccountID:   rec.StringField("AccountId"),
		Type:        rec.StringField("Type"),
	}

	ec := &EntityContext{Opportunity: opp}
	if opp.AccountID != "" {
		account, err := FetchAccountContext(ctx, c, opp.AccountID)
		if err != nil {
			// Opportunity alone is still useful grounding.
			return ec, nil
		}
		ec.Account = account
	}
	return ec, nil
}

// FetchOpportunityTypes resolves the deal Type for a set of opportunity IDs
// in one query.
func FetchOpportunityTypes(ctx context.Context, c Client, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	soql := fmt.Sprintf("SELECT Id, Type FROM Opportunity WHERE Id IN (%s)", QuoteIDList(ids))
	res, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}

	types := make(map[string]string, len(res.Records))
	for _, rec := range res.Records {
		types[rec.StringField("Id")] = rec.StringField("Type")
	}
	return types, nil
}
