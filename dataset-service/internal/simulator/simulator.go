// Package simulator mutates account balances through a random sequence of
// withdrawals, deposits and transfers and records each event as a
// transaction.
package simulator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/eaglebank/dataseed/shared/models"
	"github.com/eaglebank/dataseed/shared/utils"
)

// ErrTooFewAccounts is returned when there are not two distinct accounts to
// pick a sender and a receiver from.
var ErrTooFewAccounts = errors.New("simulator: at least two accounts are required")

// ErrBalanceOverflow is returned when an event would push an amount or a
// balance past the float64 range. The accounts are left as they were.
var ErrBalanceOverflow = errors.New("simulator: balance overflow")

// MaxTransactions bounds the runs the service accepts. Deposits scale the
// receiver's balance by up to 2.9, so balances grow geometrically with the
// run length and long runs reach the float64 range.
const MaxTransactions = 5000

const (
	minMultiplier = 0.1
	maxMultiplier = 0.9
)

var kinds = [...]models.TransactionKind{models.Withdrawal, models.Deposit, models.Transfer}

// Event is one drawn simulation step. Sender and Receiver are positions in
// the account slice.
type Event struct {
	Sender     int
	Receiver   int
	Multiplier float64
	Kind       models.TransactionKind
}

// Options tunes how transactions are recorded.
type Options struct {
	// RecordNotional logs the unrounded amount instead of the rounded amount
	// that was applied to the balances.
	RecordNotional bool
}

type Simulator struct {
	rng  *rand.Rand
	opts Options
}

func New(rng *rand.Rand, opts Options) *Simulator {
	return &Simulator{rng: rng, opts: opts}
}

// Run draws count events over accounts, mutating balances in place, and
// returns the transactions in simulation order with ids 0..count-1.
func (s *Simulator) Run(accounts []models.Account, count int) ([]models.Transaction, error) {
	if len(accounts) < 2 {
		return nil, ErrTooFewAccounts
	}
	if count < 0 {
		return nil, fmt.Errorf("simulator: negative transaction count %d", count)
	}

	transactions := make([]models.Transaction, 0, count)
	for id := range count {
		e, err := s.Draw(len(accounts))
		if err != nil {
			return nil, err
		}
		tx, err := s.Apply(accounts, e, id)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// Draw picks a sender, a distinct receiver, a multiplier in [0.1, 0.9) and
// an event kind, in that order. The receiver is resampled until it differs
// from the sender.
func (s *Simulator) Draw(n int) (Event, error) {
	if n < 2 {
		return Event{}, ErrTooFewAccounts
	}
	sender := s.rng.IntN(n)
	receiver := s.rng.IntN(n)
	for receiver == sender {
		receiver = s.rng.IntN(n)
	}
	return Event{
		Sender:     sender,
		Receiver:   receiver,
		Multiplier: s.rng.Float64()*(maxMultiplier-minMultiplier) + minMultiplier,
		Kind:       kinds[s.rng.IntN(len(kinds))],
	}, nil
}

// Apply performs e against accounts and returns the transaction recorded
// under id. Amounts are rounded to cents before they touch a balance, and
// every touched balance is left with at most two decimals.
//
// A deposit is scaled by the receiver's own balance, so a receiver with a
// negative balance receives a negative deposit.
func (s *Simulator) Apply(accounts []models.Account, e Event, id int) (models.Transaction, error) {
	if e.Sender == e.Receiver {
		return models.Transaction{}, fmt.Errorf("simulator: sender and receiver are both %d", e.Sender)
	}
	if !inRange(e.Sender, len(accounts)) || !inRange(e.Receiver, len(accounts)) {
		return models.Transaction{}, fmt.Errorf("simulator: event %d->%d outside %d accounts", e.Sender, e.Receiver, len(accounts))
	}
	sender := &accounts[e.Sender]
	receiver := &accounts[e.Receiver]

	var amount float64
	switch e.Kind {
	case models.Withdrawal, models.Transfer:
		amount = sender.Balance * e.Multiplier
	case models.Deposit:
		amount = receiver.Balance * (e.Multiplier + 1)
	default:
		return models.Transaction{}, fmt.Errorf("simulator: unknown transaction kind %q", e.Kind)
	}
	applied, err := settle(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: %w", id, err)
	}

	senderBalance, receiverBalance := sender.Balance, receiver.Balance
	switch e.Kind {
	case models.Withdrawal:
		senderBalance, err = settle(senderBalance - applied)
	case models.Deposit:
		receiverBalance, err = settle(receiverBalance + applied)
	case models.Transfer:
		if senderBalance, err = settle(senderBalance - applied); err == nil {
			receiverBalance, err = settle(receiverBalance + applied)
		}
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: %w", id, err)
	}
	sender.Balance, receiver.Balance = senderBalance, receiverBalance

	if !s.opts.RecordNotional {
		amount = applied
	}
	return models.Transaction{
		TransactionID: id,
		SenderID:      sender.AccountID,
		ReceiverID:    receiver.AccountID,
		Amount:        amount,
		Kind:          e.Kind,
	}, nil
}

// settle rounds v to cents, refusing values Round2 cannot represent.
func settle(v float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrBalanceOverflow
	}
	return utils.Round2(v), nil
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
