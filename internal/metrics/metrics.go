package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AccountsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sipsafe_accounts_created_total",
			Help: "Total number of accounts created",
		},
	)

	GroupsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sipsafe_groups_created_total",
			Help: "Total number of groups created",
		},
	)

	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sipsafe_messages_sent_total",
			Help: "Total number of group messages sent",
		},
	)

	RemindersScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sipsafe_reminders_scheduled_total",
			Help: "Total number of check-in reminders scheduled",
		},
	)

	RemindersDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sipsafe_reminders_dispatched_total",
			Help: "Total number of reminders the dispatch worker processed, by outcome",
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(AccountsCreated)
	prometheus.MustRegister(GroupsCreated)
	prometheus.MustRegister(MessagesSent)
	prometheus.MustRegister(RemindersScheduled)
	prometheus.MustRegister(RemindersDispatched)
}
