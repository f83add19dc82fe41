package succession

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionelmichaud/patrimoine/internal/assets"
	"github.com/lionelmichaud/patrimoine/internal/family"
	"github.com/lionelmichaud/patrimoine/internal/fiscal"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

func testEngine(t *testing.T, fam *family.Family) *Engine {
	t.Helper()
	model := fiscal.DefaultModel()
	require.NoError(t, model.Initialize())
	return NewEngine(model, assets.EvaluationContext{
		Ages:         fam,
		Demembrement: ownership.DefaultDemembrementTable(),
	})
}

func TestLegalSuccessionWithoutSpouse(t *testing.T) {
	fam := &family.Family{
		Adults: []*family.Adult{
			{Person: family.Person{Name: "lionel", BirthDate: birth(1964), ExpectedAgeOfDeath: 82}},
		},
		Children: []*family.Child{
			{Person: family.Person{Name: "lou", BirthDate: birth(2010), ExpectedAgeOfDeath: 85}},
			{Person: family.Person{Name: "arthur", BirthDate: birth(2012), ExpectedAgeOfDeath: 85}},
		},
	}
	pat := &assets.Patrimoin{
		RealEstates: []*assets.RealEstateAsset{{
			Name:      "apartment",
			Ownership: ownership.NewFullOwnership("lionel"),
			BuyYear:   2000,
			BuyPrice:  decimal.NewFromInt(216142),
		}},
	}
	engine := testEngine(t, fam)

	succession, err := engine.LegalSuccession(fam, pat, fam.Adult("lionel"), 2046, FullUsufruct)
	require.NoError(t, err)

	assert.Equal(t, Legal, succession.Kind)
	assert.Equal(t, 2046, succession.YearOfDeath)
	assert.True(t, succession.TaxableValue.Equal(decimal.NewFromInt(216142)))
	require.Len(t, succession.Inheritances, 2)

	// each child: 108071 brut, 100000 abatement, 8071 taxed at 5 %
	expectedTax := decimal.NewFromFloat(403.55)
	for _, inheritance := range succession.Inheritances {
		assert.True(t, inheritance.Brut.Equal(decimal.NewFromInt(108071)), "got %s", inheritance.Brut)
		assert.True(t, inheritance.Tax.Equal(expectedTax), "got %s", inheritance.Tax)
		assert.True(t, inheritance.Net.Equal(decimal.NewFromFloat(107667.45)), "got %s", inheritance.Net)
	}
	assert.True(t, succession.TotalTax().Equal(decimal.NewFromFloat(807.10)))
}

func TestLegalSuccessionWithSurvivingSpouse(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		RealEstates: []*assets.RealEstateAsset{{
			Name:      "apartment",
			Ownership: ownership.NewFullOwnership("lionel"),
			BuyYear:   2000,
			BuyPrice:  decimal.NewFromInt(200000),
		}},
	}
	engine := testEngine(t, fam)

	succession, err := engine.LegalSuccession(fam, pat, fam.Adult("lionel"), 2046, FullUsufruct)
	require.NoError(t, err)
	require.Len(t, succession.Inheritances, 3)

	// vanessa is 78: usufruct worth 30 %, each child 35 %
	spouse := succession.Inheritances[0]
	assert.Equal(t, "vanessa", spouse.PersonName)
	assert.True(t, spouse.Brut.Equal(decimal.NewFromInt(60000)), "got %s", spouse.Brut)
	assert.True(t, spouse.Tax.IsZero())

	for _, child := range succession.Inheritances[1:] {
		assert.True(t, child.Brut.Equal(decimal.NewFromInt(70000)), "got %s", child.Brut)
		assert.True(t, child.Tax.IsZero(), "under the abatement, got %s", child.Tax)
		assert.True(t, child.Net.Equal(child.Brut))
	}
}

func TestLegalSuccessionSpouseDiscountedMainHome(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		RealEstates: []*assets.RealEstateAsset{{
			Name:      "home",
			Ownership: ownership.NewFullOwnership("lionel"),
			BuyYear:   2000,
			BuyPrice:  decimal.NewFromInt(100000),
			Inhabited: assets.YearSpan{From: 2000, To: 2060},
		}},
	}
	engine := testEngine(t, fam)

	succession, err := engine.LegalSuccession(fam, pat, fam.Adult("lionel"), 2046, FullUsufruct)
	require.NoError(t, err)
	// the occupied home is valued with the 20 % succession discount
	assert.True(t, succession.TaxableValue.Equal(decimal.NewFromInt(80000)), "got %s", succession.TaxableValue)
}

func lifeInsurancePolicy(name, owner string, amount int64, clause *assets.LifeInsuranceClause) *assets.FreeInvestment {
	policy := &assets.FreeInvestment{
		Name:              name,
		Ownership:         ownership.NewFullOwnership(owner),
		Kind:              assets.LifeInsurance,
		Clause:            clause,
		FirstYear:         2010,
		InitialInvestment: decimal.NewFromInt(amount),
	}
	policy.ResetCurrentState()
	return policy
}

func TestLifeInsuranceSuccession(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		FreeInvestments: []*assets.FreeInvestment{
			lifeInsurancePolicy("av-lionel", "lionel", 600000, &assets.LifeInsuranceClause{
				FullRecipients: []string{"lou", "arthur"},
			}),
		},
	}
	engine := testEngine(t, fam)

	succession, err := engine.LifeInsuranceSuccession(fam, pat, fam.Adult("lionel"), 2046)
	require.NoError(t, err)

	assert.Equal(t, LifeInsurance, succession.Kind)
	assert.True(t, succession.TaxableValue.Equal(decimal.NewFromInt(600000)))
	require.Len(t, succession.Inheritances, 2)

	// each child: 300000 brut, 152500 abatement, 147500 at 20 %
	expectedTax := decimal.NewFromInt(29500)
	for _, inheritance := range succession.Inheritances {
		assert.True(t, inheritance.Brut.Equal(decimal.NewFromInt(300000)), "got %s", inheritance.Brut)
		assert.True(t, inheritance.Tax.Equal(expectedTax), "got %s", inheritance.Tax)
	}
}

func TestLifeInsuranceSuccessionSpouseExempt(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		FreeInvestments: []*assets.FreeInvestment{
			lifeInsurancePolicy("av-lionel", "lionel", 600000, &assets.LifeInsuranceClause{
				FullRecipients: []string{"vanessa"},
			}),
		},
	}
	engine := testEngine(t, fam)

	succession, err := engine.LifeInsuranceSuccession(fam, pat, fam.Adult("lionel"), 2046)
	require.NoError(t, err)
	require.Len(t, succession.Inheritances, 1)
	assert.True(t, succession.Inheritances[0].Tax.IsZero())
	assert.True(t, succession.Inheritances[0].Net.Equal(decimal.NewFromInt(600000)))
}

func TestLifeInsuranceSuccessionAbatementAppliesOnceAcrossPolicies(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		FreeInvestments: []*assets.FreeInvestment{
			lifeInsurancePolicy("av-1", "lionel", 100000, &assets.LifeInsuranceClause{
				FullRecipients: []string{"lou"},
			}),
			lifeInsurancePolicy("av-2", "lionel", 100000, &assets.LifeInsuranceClause{
				FullRecipients: []string{"lou"},
			}),
		},
	}
	engine := testEngine(t, fam)

	succession, err := engine.LifeInsuranceSuccession(fam, pat, fam.Adult("lionel"), 2046)
	require.NoError(t, err)
	require.Len(t, succession.Inheritances, 1)

	// 200000 aggregated, one 152500 abatement, 47500 at 20 %
	assert.True(t, succession.Inheritances[0].Brut.Equal(decimal.NewFromInt(200000)))
	assert.True(t, succession.Inheritances[0].Tax.Equal(decimal.NewFromInt(9500)), "got %s", succession.Inheritances[0].Tax)
}

func TestLifeInsuranceSuccessionMissingClause(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		FreeInvestments: []*assets.FreeInvestment{
			lifeInsurancePolicy("av-lionel", "lionel", 100000, nil),
		},
	}
	engine := testEngine(t, fam)

	_, err := engine.LifeInsuranceSuccession(fam, pat, fam.Adult("lionel"), 2046)
	assert.Error(t, err)
}

func TestTransferLifeInsurance(t *testing.T) {
	t.Run("sole subscriber with a full clause", func(t *testing.T) {
		policy := lifeInsurancePolicy("av", "lionel", 100000, &assets.LifeInsuranceClause{
			FullRecipients: []string{"lou", "arthur"},
		})
		require.NoError(t, TransferLifeInsurance(policy, "lionel"))

		assert.False(t, policy.Ownership.IsDismembered)
		assert.True(t, fractionOf(t, policy.Ownership.FullOwners, "lou").Equal(decimal.NewFromInt(50)))
		assert.True(t, fractionOf(t, policy.Ownership.FullOwners, "arthur").Equal(decimal.NewFromInt(50)))
	})

	t.Run("sole subscriber with a dismembered clause", func(t *testing.T) {
		policy := lifeInsurancePolicy("av", "lionel", 100000, &assets.LifeInsuranceClause{
			IsDismembered:     true,
			UsufructRecipient: "vanessa",
			BareRecipients:    []string{"lou", "arthur"},
		})
		require.NoError(t, TransferLifeInsurance(policy, "lionel"))

		assert.True(t, policy.Ownership.IsDismembered)
		assert.True(t, fractionOf(t, policy.Ownership.UsufructOwners, "vanessa").Equal(decimal.NewFromInt(100)))
		assert.True(t, fractionOf(t, policy.Ownership.BareOwners, "lou").Equal(decimal.NewFromInt(50)))
		assert.NoError(t, policy.Ownership.Validate())
	})

	t.Run("missing clause is an error", func(t *testing.T) {
		policy := lifeInsurancePolicy("av", "lionel", 100000, nil)
		assert.Error(t, TransferLifeInsurance(policy, "lionel"))
	})

	t.Run("non subscriber is a no-op", func(t *testing.T) {
		policy := lifeInsurancePolicy("av", "lionel", 100000, nil)
		require.NoError(t, TransferLifeInsurance(policy, "vanessa"))
		assert.True(t, fractionOf(t, policy.Ownership.FullOwners, "lionel").Equal(decimal.NewFromInt(100)))
	})
}

func TestTransferAll(t *testing.T) {
	fam := coupleFixture()
	pat := &assets.Patrimoin{
		RealEstates: []*assets.RealEstateAsset{{
			Name:      "home",
			Ownership: ownership.NewFullOwnership("lionel", "vanessa"),
			BuyYear:   2000,
			BuyPrice:  decimal.NewFromInt(300000),
		}},
		FreeInvestments: []*assets.FreeInvestment{
			lifeInsurancePolicy("av-lionel", "lionel", 100000, &assets.LifeInsuranceClause{
				FullRecipients: []string{"vanessa"},
			}),
		},
	}

	require.NoError(t, TransferAll(fam, pat, fam.Adult("lionel"), 2046, FullUsufruct))

	home := pat.RealEstates[0].Ownership
	assert.True(t, home.IsDismembered)
	assert.True(t, fractionOf(t, home.UsufructOwners, "vanessa").Equal(decimal.NewFromInt(100)))

	policy := pat.FreeInvestments[0].Ownership
	assert.False(t, policy.IsDismembered)
	assert.True(t, fractionOf(t, policy.FullOwners, "vanessa").Equal(decimal.NewFromInt(100)))
}
