package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrioritiesArePairwiseDistinct(t *testing.T) {
	seen := map[int]Role{}
	for _, r := range All() {
		p := PriorityOf(r)
		if other, dup := seen[p]; dup {
			t.Fatalf("roles %s and %s share priority %d", r, other, p)
		}
		seen[p] = r
	}
	assert.Len(t, seen, 7)
}

func TestAllOrderedByPriority(t *testing.T) {
	all := All()
	require.Len(t, all, 7)
	assert.Equal(t, SuperAdmin, all[0])
	assert.Equal(t, Customer, all[len(all)-1])
	for i := 1; i < len(all); i++ {
		assert.Less(t, PriorityOf(all[i-1]), PriorityOf(all[i]))
	}
}

func TestCanCreateMatchesConfiguredSets(t *testing.T) {
	expected := map[Role][]Role{
		SuperAdmin:        {SuperAdmin, Admin, RestaurantOwner, RestaurantManager, KitchenStaff, Cashier, Customer},
		Admin:             {RestaurantOwner, RestaurantManager, KitchenStaff, Cashier, Customer},
		RestaurantOwner:   {RestaurantManager, KitchenStaff, Cashier, Customer},
		RestaurantManager: {KitchenStaff, Cashier, Customer},
		KitchenStaff:      {},
		Cashier:           {},
		Customer:          {},
	}

	for _, actor := range All() {
		allowed := map[Role]bool{}
		for _, target := range expected[actor] {
			allowed[target] = true
		}
		for _, target := range All() {
			assert.Equal(t, allowed[target], CanCreate(actor, target),
				"actor=%s target=%s", actor, target)
		}
	}
}

func TestParseRejectsUnknownRoles(t *testing.T) {
	for _, input := range []string{"", "root", "SUPER-ADMIN", "manager", "restaurant-manager "} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}

	r, err := Parse("restaurant-manager")
	require.NoError(t, err)
	assert.Equal(t, RestaurantManager, r)
}

func TestCanCreateUnknownActor(t *testing.T) {
	assert.False(t, CanCreate(Role("ghost"), Customer))
	assert.Nil(t, CreatableBy(Role("ghost")))
}

func TestRequiresRestaurant(t *testing.T) {
	assert.True(t, RequiresRestaurant(RestaurantOwner))
	assert.True(t, RequiresRestaurant(RestaurantManager))
	assert.True(t, RequiresRestaurant(KitchenStaff))
	assert.True(t, RequiresRestaurant(Cashier))

	assert.False(t, RequiresRestaurant(SuperAdmin))
	assert.False(t, RequiresRestaurant(Admin))
	assert.False(t, RequiresRestaurant(Customer))
}

func TestIsSystemRole(t *testing.T) {
	assert.True(t, IsSystemRole(SuperAdmin))
	assert.True(t, IsSystemRole(Admin))
	assert.False(t, IsSystemRole(RestaurantOwner))
}
