package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhoury/tillbook/internal/adapter/http/dto"
	"github.com/nkhoury/tillbook/internal/domain"
)

func TestAmountPayloadDecoding(t *testing.T) {
	// Decimal amounts are accepted both quoted and bare.
	var quoted dto.AmountPayload
	require.NoError(t, json.Unmarshal([]byte(`{"usd":"100.50","lbp":"4500000"}`), &quoted))

	var bare dto.AmountPayload
	require.NoError(t, json.Unmarshal([]byte(`{"usd":100.50,"lbp":4500000}`), &bare))

	assert.True(t, quoted.ToDomain().Equal(bare.ToDomain()))
	assert.True(t, quoted.USD.Equal(decimal.RequireFromString("100.50")))
	assert.True(t, quoted.LBP.Equal(decimal.NewFromInt(4500000)))
}

func TestRecordEntryRequestToUseCaseInput(t *testing.T) {
	req := dto.RecordEntryRequest{
		Kind:            "payment",
		Amount:          dto.AmountPayload{USD: decimal.NewFromInt(30)},
		Cause:           "electricity",
		DeductionSource: "other_pool",
	}

	input := req.ToUseCaseInput(7)

	assert.Equal(t, int64(7), input.BranchID)
	assert.Equal(t, domain.KindPayment, input.Kind)
	assert.Equal(t, domain.SourceOtherPool, input.DeductionSource)
	assert.Equal(t, "electricity", input.Cause)
	assert.True(t, input.Amount.Equal(domain.AmountFromInts(30, 0)))
}

func TestRequestCloseRequestDateOverride(t *testing.T) {
	noDate := dto.RequestCloseRequest{UserID: "u-1"}
	input, err := noDate.ToUseCaseInput(1)
	require.NoError(t, err)
	assert.Nil(t, input.Date)

	dateStr := "2026-08-25"
	withDate := dto.RequestCloseRequest{UserID: "u-1", Date: &dateStr}
	input, err = withDate.ToUseCaseInput(1)
	require.NoError(t, err)
	require.NotNil(t, input.Date)
	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), *input.Date)

	bad := "25/08/2026"
	_, err = (&dto.RequestCloseRequest{UserID: "u-1", Date: &bad}).ToUseCaseInput(1)
	assert.Error(t, err)
}

func TestSessionFromDomain(t *testing.T) {
	now := time.Date(2026, 8, 27, 9, 30, 0, 0, time.UTC)
	session := domain.NewDaySession(3, domain.DateOnly(now), domain.AmountFromInts(100, 0), now)
	session.State = domain.StateOpenForEntry
	session.Opening = domain.AmountFromInts(100, 0)

	sale, err := domain.NewSale("s1", domain.AmountFromInts(50, 0), now)
	require.NoError(t, err)
	require.NoError(t, session.Ledger.Add(sale))

	resp := dto.SessionFromDomain(session)

	assert.Equal(t, int64(3), resp.BranchID)
	assert.Equal(t, "2026-08-27", resp.Date)
	assert.Equal(t, string(domain.StateOpenForEntry), resp.State)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "sale", resp.Entries[0].Kind)
	assert.True(t, resp.Net.ToDomain().Equal(domain.AmountFromInts(150, 0)))
}

func TestCreditFromDomainRemaining(t *testing.T) {
	now := time.Now().UTC()
	credit := &domain.Credit{
		ID:         "cr-1",
		BranchID:   1,
		Person:     "walid",
		Amount:     domain.AmountFromInts(100, 0),
		PaidAmount: domain.AmountFromInts(40, 0),
		Status:     domain.CreditStatusUnpaid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	resp := dto.CreditFromDomain(credit)

	assert.Equal(t, "unpaid", resp.Status)
	assert.True(t, resp.Remaining.ToDomain().Equal(domain.AmountFromInts(60, 0)))
}
