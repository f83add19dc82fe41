package succession

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lionelmichaud/patrimoine/internal/assets"
	"github.com/lionelmichaud/patrimoine/internal/ownership"
)

// removeOwner deletes name from the owner set and returns its fraction.
func removeOwner(owners []ownership.Owner, name string) ([]ownership.Owner, decimal.Decimal) {
	var kept []ownership.Owner
	removed := decimal.Zero
	for _, o := range owners {
		if o.Name == name {
			removed = removed.Add(o.Fraction)
			continue
		}
		kept = append(kept, o)
	}
	return kept, removed
}

// addShare credits a fraction to name, merging with an existing entry.
func addShare(owners []ownership.Owner, name string, fraction decimal.Decimal) []ownership.Owner {
	if !fraction.IsPositive() {
		return owners
	}
	for i := range owners {
		if owners[i].Name == name {
			owners[i].Fraction = owners[i].Fraction.Add(fraction)
			return owners
		}
	}
	return append(owners, ownership.Owner{Name: name, Fraction: fraction})
}

// renormalize scales the fractions so they sum to 100 again.
func renormalize(owners []ownership.Owner) []ownership.Owner {
	sum := decimal.Zero
	for _, o := range owners {
		sum = sum.Add(o.Fraction)
	}
	if !sum.IsPositive() {
		return owners
	}
	for i := range owners {
		owners[i].Fraction = owners[i].Fraction.Mul(hundred).Div(sum)
	}
	return owners
}

// TransferOwnership rewrites one ownership structure after the decedent's
// death.
//
// Rules:
//   - non-dismembered, decedent holds a full share: the share is devolved
//     per the spouse's fiscal option when a spouse survives (the asset
//     becomes dismembered for the usufruct options), else to the children
//     in equal shares, else to the remaining owners;
//   - dismembered, decedent is a usufructuary: the usufruct extinguishes;
//     when no usufructuary remains the bare owners become full owners;
//   - dismembered, decedent is a bare owner only: no change. This
//     replicates the source model's documented behavior; the decedent's
//     bare share is not redistributed.
func TransferOwnership(o *ownership.Ownership, decedent, spouse string, childrenNames []string, option SpouseFiscalOption) error {
	switch {
	case o.IsAFullOwner(decedent):
		return transferFullShare(o, decedent, spouse, childrenNames, option)
	case o.IsAnUsufructOwner(decedent):
		extinguishUsufruct(o, decedent)
		return nil
	default:
		// Absent, or bare owner only: intentional no-op.
		return nil
	}
}

func transferFullShare(o *ownership.Ownership, decedent, spouse string, childrenNames []string, option SpouseFiscalOption) error {
	kept, share := removeOwner(o.FullOwners, decedent)
	o.FullOwners = kept

	hasSpouse := spouse != ""
	hasChildren := len(childrenNames) > 0

	switch {
	case hasSpouse && hasChildren:
		return dismemberShare(o, share, spouse, childrenNames, option)
	case hasSpouse:
		o.FullOwners = addShare(o.FullOwners, spouse, share)
		return nil
	case hasChildren:
		each := share.Div(decimal.NewFromInt(int64(len(childrenNames))))
		for _, c := range childrenNames {
			o.FullOwners = addShare(o.FullOwners, c, each)
		}
		return nil
	default:
		o.FullOwners = renormalize(o.FullOwners)
		return nil
	}
}

// dismemberShare devolves the decedent's full share between spouse and
// children per the fiscal option. For the usufruct options the whole asset
// becomes dismembered; surviving full owners keep their rights on both
// sides of the split.
func dismemberShare(o *ownership.Ownership, share decimal.Decimal, spouse string, childrenNames []string, option SpouseFiscalOption) error {
	nbChildren := decimal.NewFromInt(int64(len(childrenNames)))

	if option == QuotiteDisponible {
		// Stays in full ownership: spouse takes the disposable quota of
		// the share, children split the rest.
		spousePart := share.Div(nbChildren.Add(one))
		o.FullOwners = addShare(o.FullOwners, spouse, spousePart)
		each := share.Sub(spousePart).Div(nbChildren)
		for _, c := range childrenNames {
			o.FullOwners = addShare(o.FullOwners, c, each)
		}
		return nil
	}

	// Usufruct options: rebuild as dismembered. Survivors who held full
	// shares appear on both sides with their fraction.
	usufruct := make([]ownership.Owner, 0, len(o.FullOwners)+1)
	bare := make([]ownership.Owner, 0, len(o.FullOwners)+len(childrenNames)+1)
	for _, owner := range o.FullOwners {
		usufruct = addShare(usufruct, owner.Name, owner.Fraction)
		bare = addShare(bare, owner.Name, owner.Fraction)
	}

	switch option {
	case FullUsufruct:
		usufruct = addShare(usufruct, spouse, share)
		each := share.Div(nbChildren)
		for _, c := range childrenNames {
			bare = addShare(bare, c, each)
		}
	case QuarterFullPlusThreeQuarterUsufruct:
		quarter := share.Div(decimal.NewFromInt(4))
		usufruct = addShare(usufruct, spouse, share)
		bare = addShare(bare, spouse, quarter)
		each := share.Sub(quarter).Div(nbChildren)
		for _, c := range childrenNames {
			bare = addShare(bare, c, each)
		}
	default:
		return fmt.Errorf("unknown spouse fiscal option %q", string(option))
	}

	o.IsDismembered = true
	o.FullOwners = nil
	o.UsufructOwners = usufruct
	o.BareOwners = bare
	return nil
}

// extinguishUsufruct removes the decedent from the usufructuaries. The
// usufruct extinguishes on death: when nobody holds it anymore the bare
// owners recover full ownership.
func extinguishUsufruct(o *ownership.Ownership, decedent string) {
	kept, _ := removeOwner(o.UsufructOwners, decedent)
	if len(kept) == 0 {
		o.IsDismembered = false
		o.FullOwners = o.BareOwners
		o.UsufructOwners = nil
		o.BareOwners = nil
		return
	}
	o.UsufructOwners = renormalize(kept)
}

// TransferLifeInsurance rewrites a life-insurance policy's ownership on
// the subscriber's death according to the beneficiary clause. The clause
// decides whether the resulting ownership is dismembered, independently of
// the original structure. A decedent who is a bare owner only leaves the
// ownership unchanged, like the generic rule.
func TransferLifeInsurance(f *assets.FreeInvestment, decedent string) error {
	o := &f.Ownership
	switch {
	case o.IsAnUsufructOwner(decedent):
		extinguishUsufruct(o, decedent)
		return nil
	case !o.IsAFullOwner(decedent):
		return nil
	}

	clause := f.Clause
	if clause == nil {
		return fmt.Errorf("life insurance %q has no beneficiary clause", f.Name)
	}

	kept, share := removeOwner(o.FullOwners, decedent)

	if len(kept) == 0 {
		// Sole subscriber: the clause shapes the new ownership wholesale.
		if clause.IsDismembered {
			bare := make([]ownership.Owner, 0, len(clause.BareRecipients))
			each := hundred.Div(decimal.NewFromInt(int64(len(clause.BareRecipients))))
			for _, name := range clause.BareRecipients {
				bare = addShare(bare, name, each)
			}
			o.IsDismembered = true
			o.FullOwners = nil
			o.UsufructOwners = []ownership.Owner{{Name: clause.UsufructRecipient, Fraction: hundred}}
			o.BareOwners = bare
			return nil
		}
		full := make([]ownership.Owner, 0, len(clause.FullRecipients))
		each := hundred.Div(decimal.NewFromInt(int64(len(clause.FullRecipients))))
		for _, name := range clause.FullRecipients {
			full = addShare(full, name, each)
		}
		o.IsDismembered = false
		o.FullOwners = full
		o.UsufructOwners = nil
		o.BareOwners = nil
		return nil
	}

	// Co-subscribed policy: the decedent's share goes to the clause's full
	// recipients in equal shares, the survivors keep theirs.
	recipients := clause.FullRecipients
	if clause.IsDismembered {
		recipients = clause.BareRecipients
	}
	if len(recipients) == 0 {
		return fmt.Errorf("life insurance %q clause names no recipient", f.Name)
	}
	each := share.Div(decimal.NewFromInt(int64(len(recipients))))
	for _, name := range recipients {
		kept = addShare(kept, name, each)
	}
	o.FullOwners = kept
	return nil
}
