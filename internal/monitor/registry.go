package monitor

import (
	"fmt"

	"github.com/adamdecaf/farecheck/internal/config"
	"github.com/adamdecaf/farecheck/internal/policy"
)

type Kind string

const (
	KindAccount     Kind = "account"
	KindReservation Kind = "reservation"
)

// Identity uniquely addresses a monitored entity within a registry.
type Identity string

func AccountIdentity(username string) Identity {
	return Identity("account:" + username)
}

func ReservationIdentity(confirmationNumber, lastName string) Identity {
	return Identity(fmt.Sprintf("reservation:%s+%s", confirmationNumber, lastName))
}

// Entity is one account or reservation under monitoring, bound to the policy
// resolved for it. Entities are immutable once built, a reload replaces them
// wholesale.
type Entity struct {
	Identity Identity
	Kind     Kind

	// Account credentials
	Username string
	Password string

	// Reservation key
	ConfirmationNumber string
	FirstName          string
	LastName           string

	Policy policy.Effective
}

// Registry is one immutable snapshot of every monitored entity. Entities are
// addressed by identity, so reordering the source lists changes nothing.
type Registry struct {
	entities map[Identity]Entity
	order    []Identity
}

// BuildRegistry validates the whole tree and resolves an effective policy per
// entity. Any invalid field anywhere fails the build with no registry.
func BuildRegistry(tree *config.Tree) (*Registry, error) {
	validated, err := config.Validate(tree)
	if err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	reg := &Registry{
		entities: make(map[Identity]Entity),
	}

	for _, account := range validated.Accounts {
		entity := Entity{
			Identity: AccountIdentity(account.Username),
			Kind:     KindAccount,
			Username: account.Username,
			Password: account.Password,
			Policy:   resolveWith(validated, account.Layer),
		}
		reg.entities[entity.Identity] = entity
		reg.order = append(reg.order, entity.Identity)
	}

	for _, reservation := range validated.Reservations {
		entity := Entity{
			Identity:           ReservationIdentity(reservation.ConfirmationNumber, reservation.LastName),
			Kind:               KindReservation,
			ConfirmationNumber: reservation.ConfirmationNumber,
			FirstName:          reservation.FirstName,
			LastName:           reservation.LastName,
			Policy:             resolveWith(validated, reservation.Layer),
		}
		reg.entities[entity.Identity] = entity
		reg.order = append(reg.order, entity.Identity)
	}

	return reg, nil
}

func resolveWith(validated *config.Validated, owner policy.Layer) policy.Effective {
	effective := policy.Resolve(validated.Global, owner)
	effective.BrowserPath = validated.BrowserPath
	effective.TwentyFourHourFormat = validated.TwentyFourHourFormat
	return effective
}

func (r *Registry) Lookup(id Identity) (Entity, bool) {
	entity, ok := r.entities[id]
	return entity, ok
}

// Entities returns every entity in source order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entities[id])
	}
	return out
}

func (r *Registry) Size() int {
	return len(r.order)
}
