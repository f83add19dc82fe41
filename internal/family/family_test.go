package family

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionelmichaud/patrimoine/internal/random"
)

func birth(year int) time.Time {
	return time.Date(year, 6, 15, 0, 0, 0, 0, time.UTC)
}

func testFamily() *Family {
	return &Family{
		Adults: []*Adult{
			{
				Person:                 Person{Name: "lionel", BirthDate: birth(1964), ExpectedAgeOfDeath: 82},
				RetirementYear:         2026,
				PensionLiquidationYear: 2028,
				PensionBrut:            decimal.NewFromInt(30000),
				Income:                 WorkIncome{Kind: Salary, Amount: decimal.NewFromInt(60000)},
			},
			{
				Person:                 Person{Name: "vanessa", BirthDate: birth(1968), ExpectedAgeOfDeath: 89},
				RetirementYear:         2030,
				PensionLiquidationYear: 2032,
				PensionBrut:            decimal.NewFromInt(25000),
				Income:                 WorkIncome{Kind: Salary, Amount: decimal.NewFromInt(50000)},
			},
		},
		Children: []*Child{
			{Person: Person{Name: "lou", BirthDate: birth(2010), ExpectedAgeOfDeath: 90}},
			{Person: Person{Name: "arthur", BirthDate: birth(2012), ExpectedAgeOfDeath: 90}},
		},
	}
}

func TestFamilyValidate(t *testing.T) {
	assert.NoError(t, testFamily().Validate())

	t.Run("no adult", func(t *testing.T) {
		f := &Family{}
		assert.Error(t, f.Validate())
	})

	t.Run("three adults", func(t *testing.T) {
		f := &Family{Adults: []*Adult{{}, {}, {}}}
		assert.Error(t, f.Validate())
	})

	t.Run("duplicate names", func(t *testing.T) {
		f := testFamily()
		f.Children[1].Name = "lou"
		assert.Error(t, f.Validate())
	})
}

func TestPersonLifeSpan(t *testing.T) {
	p := Person{Name: "lionel", BirthDate: birth(1964), ExpectedAgeOfDeath: 82}

	assert.Equal(t, 2046, p.YearOfDeath())
	assert.True(t, p.IsAlive(2045))
	assert.False(t, p.IsAlive(2046), "death occurs during the year of death")
	assert.Equal(t, 60, p.AgeAtEndOf(2024))
}

func TestAdultLifecycle(t *testing.T) {
	f := testFamily()
	lionel := f.Adult("lionel")
	require.NotNil(t, lionel)

	tests := []struct {
		name    string
		year    int
		works   bool
		retired bool
		pension bool
	}{
		{name: "active", year: 2024, works: true},
		{name: "retired before liquidation", year: 2027, retired: true},
		{name: "pension served", year: 2030, retired: true, pension: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.works, lionel.WorksDuring(tt.year))
			assert.Equal(t, tt.retired, lionel.IsRetired(tt.year))
			assert.Equal(t, tt.pension, lionel.ReceivesPension(tt.year))
		})
	}
}

func TestAdultLayoff(t *testing.T) {
	f := testFamily()
	lionel := f.Adult("lionel")
	lionel.LayoffYear = 2024
	lionel.SeniorityYears = 20

	assert.False(t, lionel.WorksDuring(2024), "salary stops at layoff")
	assert.True(t, lionel.IsLaidOff(2025))
	assert.False(t, lionel.IsLaidOff(2026), "retirement ends the layoff window")
}

func TestAdultDependency(t *testing.T) {
	f := testFamily()
	lionel := f.Adult("lionel")
	lionel.AgeOfDependency = 80

	assert.False(t, lionel.IsDependent(2040))
	assert.True(t, lionel.IsDependent(2044), "age 80 in 2044")
	assert.False(t, lionel.IsDependent(2047), "dead adults are not dependent")
}

func TestFiscalChildren(t *testing.T) {
	f := testFamily()

	assert.Equal(t, 2, f.NbOfFiscalChildren(2024))
	assert.Equal(t, 1, f.NbOfFiscalChildren(2028), "lou turns 18 in 2028")
	assert.Equal(t, 0, f.NbOfFiscalChildren(2035))
}

func TestFamilyQueries(t *testing.T) {
	f := testFamily()

	assert.Equal(t, 2, f.NbOfAdultsAlive(2024))
	assert.Equal(t, 1, f.NbOfAdultsAlive(2050), "lionel dies in 2046")
	assert.Equal(t, 0, f.NbOfAdultsAlive(2060))

	// The fiscal household keeps an adult for the whole year of death.
	assert.Equal(t, 2, f.NbOfAdultsAliveDuring(2046))
	assert.Equal(t, 1, f.NbOfAdultsAliveDuring(2047))
	assert.Equal(t, 1, f.NbOfAdultsAliveDuring(2057), "vanessa dies in 2057")
	assert.Equal(t, 0, f.NbOfAdultsAliveDuring(2058))

	spouse := f.SpouseOf(f.Adult("lionel"))
	require.NotNil(t, spouse)
	assert.Equal(t, "vanessa", spouse.Name)

	age, ok := f.AgeOf("lou", 2030)
	require.True(t, ok)
	assert.Equal(t, 20, age)
	_, ok = f.AgeOf("stranger", 2030)
	assert.False(t, ok)

	assert.Equal(t, []string{"lou", "arthur"}, f.ChildrenNames(2030))
}

func TestDeathsDuring(t *testing.T) {
	f := testFamily()

	deaths := f.DeathsDuring(2046)
	require.Len(t, deaths, 1)
	assert.Equal(t, "lionel", deaths[0].Name)
	assert.Empty(t, f.DeathsDuring(2045))
}

func TestNextRunAndReplay(t *testing.T) {
	f := testFamily()
	sampler, err := random.NewDiscreteSampler([]random.Point{
		{Value: 78, Probability: 0.3},
		{Value: 84, Probability: 0.7},
	}, 21)
	require.NoError(t, err)
	f.Adult("lionel").SetDeathAgeSampler(sampler)

	drawn := f.NextRun(random.Random)
	age := drawn["lionel"]
	assert.Contains(t, []float64{78, 84}, age)
	assert.Equal(t, 1964+int(age), f.Adult("lionel").YearOfDeath())

	// Members without a sampler keep the configured expectation.
	assert.Equal(t, 89.0, drawn["vanessa"])

	// Replay forces the recorded ages.
	f.SetRandomValues(map[string]float64{"lionel": 70})
	assert.Equal(t, 2034, f.Adult("lionel").YearOfDeath())
}

func TestSampleDeathDeterministic(t *testing.T) {
	f := testFamily()
	drawn := f.NextRun(random.Deterministic)
	assert.Equal(t, 82.0, drawn["lionel"])
	assert.Equal(t, 2046, f.Adult("lionel").YearOfDeath())
}
