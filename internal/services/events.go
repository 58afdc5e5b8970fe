package services

import "finwise/internal/models"

// Event is a change to a user's data that the notification engine may react to.
type Event interface {
	// ownerID is the user whose notification preference gates the event.
	ownerID() string
	// relevant reports whether the event can raise a notification at all.
	relevant() bool
}

// TransactionCreated is raised after a transaction is written, including
// updates, with the transaction's resulting state.
type TransactionCreated struct {
	Transaction *models.Transaction
}

func (e TransactionCreated) ownerID() string { return e.Transaction.UserID }

func (e TransactionCreated) relevant() bool {
	t := e.Transaction
	return t != nil && t.Type == models.TransactionTypeExpense && t.CategoryID != nil
}

// FundsAdded is raised after funds are added to a savings goal. Completed is
// true only for the call that moved the goal to completed.
type FundsAdded struct {
	Goal      *models.SavingsGoal
	Completed bool
}

func (e FundsAdded) ownerID() string { return e.Goal.UserID }

func (e FundsAdded) relevant() bool { return e.Goal != nil && e.Completed }

// ReminderDue is raised by the reminder sweep for a reminder whose due date
// falls within the lead window.
type ReminderDue struct {
	Reminder *models.Reminder
}

func (e ReminderDue) ownerID() string { return e.Reminder.UserID }

func (e ReminderDue) relevant() bool { return e.Reminder != nil }

// BudgetChanged is raised after a budget is created or updated. Only the
// budget's ID and owner are read; the stored row is evaluated.
type BudgetChanged struct {
	Budget *models.Budget
}

func (e BudgetChanged) ownerID() string { return e.Budget.UserID }

func (e BudgetChanged) relevant() bool { return e.Budget != nil }
