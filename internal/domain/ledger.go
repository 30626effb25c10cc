package domain

// Ledger holds a session's uncommitted transactions, one slice per kind.
// It is a plain value so the whole day session stays JSON-serializable.
type Ledger struct {
	Credits        []Transaction `json:"credits"`
	CreditPayments []Transaction `json:"credit_payments"`
	Payments       []Transaction `json:"payments"`
	Sales          []Transaction `json:"sales"`
	Withdrawals    []Transaction `json:"withdrawals"`
}

// Add validates the transaction and appends it to its kind's slice.
func (l *Ledger) Add(t Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if _, ok := l.find(t.ID); ok {
		return ErrDuplicateEntry
	}

	switch t.Kind {
	case KindCredit:
		l.Credits = append(l.Credits, t)
	case KindCreditPayment:
		l.CreditPayments = append(l.CreditPayments, t)
	case KindPayment:
		l.Payments = append(l.Payments, t)
	case KindSale:
		l.Sales = append(l.Sales, t)
	case KindWithdrawal:
		l.Withdrawals = append(l.Withdrawals, t)
	default:
		return ErrInvalidKind
	}

	return nil
}

// Get returns the entry with the given ID.
func (l *Ledger) Get(id string) (Transaction, error) {
	t, ok := l.find(id)
	if !ok {
		return Transaction{}, ErrEntryNotFound
	}
	return *t, nil
}

// Update replaces an existing entry in place. The entry keeps its ID and
// kind; auto-generated entries are immutable.
func (l *Ledger) Update(updated Transaction) error {
	existing, ok := l.find(updated.ID)
	if !ok {
		return ErrEntryNotFound
	}

	if existing.AutoGenerated {
		return ErrEntryImmutable
	}

	updated.Kind = existing.Kind
	updated.AutoGenerated = false
	updated.CreatedAt = existing.CreatedAt

	if err := updated.Validate(); err != nil {
		return err
	}

	*existing = updated

	return nil
}

// Remove deletes an entry. Auto-generated entries cannot be removed.
func (l *Ledger) Remove(id string) error {
	for _, slice := range l.slices() {
		for i := range *slice {
			if (*slice)[i].ID != id {
				continue
			}
			if (*slice)[i].AutoGenerated {
				return ErrEntryImmutable
			}
			*slice = append((*slice)[:i], (*slice)[i+1:]...)
			return nil
		}
	}

	return ErrEntryNotFound
}

// All returns every entry in a stable category order.
func (l *Ledger) All() []Transaction {
	out := make([]Transaction, 0, l.Size())
	for _, slice := range l.slices() {
		out = append(out, *slice...)
	}
	return out
}

// Size is the number of entries across all categories.
func (l *Ledger) Size() int {
	n := 0
	for _, slice := range l.slices() {
		n += len(*slice)
	}
	return n
}

func (l *Ledger) slices() []*[]Transaction {
	return []*[]Transaction{&l.Credits, &l.CreditPayments, &l.Payments, &l.Sales, &l.Withdrawals}
}

func (l *Ledger) find(id string) (*Transaction, bool) {
	for _, slice := range l.slices() {
		for i := range *slice {
			if (*slice)[i].ID == id {
				return &(*slice)[i], true
			}
		}
	}
	return nil, false
}
