package monitor

import (
	"testing"

	"github.com/adamdecaf/farecheck/internal/config"
	"github.com/adamdecaf/farecheck/internal/policy"

	"github.com/stretchr/testify/require"
)

func testTree() *config.Tree {
	return &config.Tree{
		CheckFares:        "same_day",
		NotificationLevel: 2,
		RetrievalInterval: 24,
		NotificationURLs:  "https://example.com/hook",
		Accounts: []config.Account{
			{
				Username: "traveler",
				Password: "hunter2",
				Overrides: config.Overrides{
					RetrievalInterval: 6,
				},
			},
		},
		Reservations: []config.Reservation{
			{
				ConfirmationNumber: "ABC123",
				FirstName:          "Jane",
				LastName:           "Doe",
				Overrides: config.Overrides{
					CheckFares:      false,
					HealthchecksURL: "https://hc-ping.com/3e0e2f30",
				},
			},
		},
	}
}

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry(testTree())
	require.NoError(t, err)
	require.Equal(t, 2, reg.Size())

	account, ok := reg.Lookup(AccountIdentity("traveler"))
	require.True(t, ok)
	require.Equal(t, KindAccount, account.Kind)
	require.Equal(t, "hunter2", account.Password)

	// account override wins, global fills the rest
	require.Equal(t, policy.RetrievalInterval(6), account.Policy.RetrievalInterval)
	require.Equal(t, policy.LevelInfo, account.Policy.NotificationLevel)
	require.Equal(t, policy.FareCheckSameDay, account.Policy.CheckFares)
	require.Equal(t, []string{"https://example.com/hook"}, account.Policy.NotificationURLs)
	require.Empty(t, account.Policy.HealthchecksURL)

	reservation, ok := reg.Lookup(ReservationIdentity("ABC123", "Doe"))
	require.True(t, ok)
	require.Equal(t, KindReservation, reservation.Kind)
	require.Equal(t, "Jane", reservation.FirstName)
	require.Equal(t, policy.FareCheckDisabled, reservation.Policy.CheckFares)
	require.Equal(t, policy.RetrievalInterval(24), reservation.Policy.RetrievalInterval)
	require.Equal(t, "https://hc-ping.com/3e0e2f30", reservation.Policy.HealthchecksURL)
}

func TestBuildRegistry_OrderInsensitive(t *testing.T) {
	tree := testTree()
	reg1, err := BuildRegistry(tree)
	require.NoError(t, err)

	// Reordering source lists changes nothing about entity resolution
	swapped := testTree()
	swapped.Reservations = append(swapped.Reservations, config.Reservation{
		ConfirmationNumber: "XYZ789", FirstName: "Sam", LastName: "Smith",
	})
	swapped.Reservations[0], swapped.Reservations[1] = swapped.Reservations[1], swapped.Reservations[0]

	reg2, err := BuildRegistry(swapped)
	require.NoError(t, err)

	want, _ := reg1.Lookup(ReservationIdentity("ABC123", "Doe"))
	got, ok := reg2.Lookup(ReservationIdentity("ABC123", "Doe"))
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestBuildRegistry_RejectsWholeTree(t *testing.T) {
	tree := testTree()
	tree.Reservations[0].NotificationLevel = 4

	reg, err := BuildRegistry(tree)
	require.Error(t, err)
	require.Nil(t, reg)

	var ve *policy.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, policy.InvalidEnum, ve.Kind)
}
