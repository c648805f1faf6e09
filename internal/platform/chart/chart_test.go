package chart

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	"github.com/SscSPs/member_ledger_app/internal/platform/config"
)

func TestParse(t *testing.T) {
	doc := `
accounts:
  - code: "1000"
    name: Cash
    type: ASSET
    subtype: cash
    opening_balance: "250.50"
    system: true
  - code: "1010"
    name: Petty Cash
    type: ASSET
    subtype: cash
    parent: "1000"
  - code: "2000"
    name: Member Deposits
    type: LIABILITY
    normal_balance: CREDIT
`
	accounts, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	assert.Equal(t, "Cash", accounts[0].Name)
	assert.Equal(t, domain.Asset, accounts[0].Type)
	assert.Equal(t, domain.SubtypeCash, accounts[0].Subtype)
	assert.True(t, accounts[0].OpeningBalance.Equal(decimal.RequireFromString("250.50")))
	assert.True(t, accounts[0].IsSystem)
	assert.Equal(t, "1000", accounts[1].ParentCode)
	assert.Equal(t, domain.NormalCredit, accounts[2].NormalBalance)
	assert.True(t, accounts[1].OpeningBalance.IsZero())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown type",
			doc:     "accounts:\n  - {code: \"1000\", name: Cash, type: CASH}\n",
			wantErr: "unknown type",
		},
		{
			name:    "duplicate code",
			doc:     "accounts:\n  - {code: \"1000\", name: Cash, type: ASSET}\n  - {code: \"1000\", name: Bank, type: ASSET}\n",
			wantErr: "duplicate code",
		},
		{
			name:    "parent defined later",
			doc:     "accounts:\n  - {code: \"5100\", name: Relief, type: EXPENSE, parent: \"5000\"}\n  - {code: \"5000\", name: Expenses, type: EXPENSE}\n",
			wantErr: "must be defined before",
		},
		{
			name:    "missing name",
			doc:     "accounts:\n  - {code: \"1000\", type: ASSET}\n",
			wantErr: "code and name are required",
		},
		{
			name:    "unknown field",
			doc:     "accounts:\n  - {code: \"1000\", name: Cash, type: ASSET, colour: red}\n",
			wantErr: "failed to decode chart",
		},
		{
			name:    "bad normal balance",
			doc:     "accounts:\n  - {code: \"1000\", name: Cash, type: ASSET, normal_balance: LEFT}\n",
			wantErr: "unknown normal balance",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	accounts, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestLoadFile_Missing(t *testing.T) {
	accounts, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, accounts)
}

// The shipped chart must define every account the default role mapping points at.
func TestShippedChartCoversDefaultRoles(t *testing.T) {
	accounts, err := LoadFile(filepath.Join("..", "..", "..", "config", "chart_of_accounts.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, accounts)

	byCode := make(map[string]domain.ChartAccount, len(accounts))
	for _, acc := range accounts {
		byCode[acc.Code] = acc
	}
	for role, code := range config.DefaultAccountRoles {
		assert.Contains(t, byCode, code, "role %s", role)
	}
	for category, code := range config.DefaultExpenseCategories {
		if assert.Contains(t, byCode, code, "category %s", category) {
			assert.Equal(t, domain.Expense, byCode[code].Type)
		}
	}
	assert.Equal(t, domain.SubtypeCash, byCode[config.DefaultAccountRoles[string(domain.RoleCash)]].Subtype)
}
