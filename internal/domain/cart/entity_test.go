package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func mustAdd(t *testing.T, c *Cart, id string, cand Candidate, restID, restName string) {
	t.Helper()
	require.NoError(t, c.Add(id, cand, restID, restName))
}

func requireInvariant(t *testing.T, c *Cart) {
	t.Helper()
	require.Equal(t, len(c.Lines) == 0, c.RestaurantID == "",
		"restaurant context must be empty iff the line sequence is empty")
}

func TestNewCartIsEmpty(t *testing.T) {
	c := New()
	require.True(t, c.IsEmpty())
	require.Equal(t, "", c.RestaurantID)
	require.Equal(t, 0.0, c.Total())
	require.Equal(t, 0, c.ItemCount())
	requireInvariant(t, c)
}

func TestAddFirstLineSetsRestaurantContext(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 1}, "r1", "Thai Palace")

	require.Equal(t, 1, c.LineCount())
	require.Equal(t, "r1", c.RestaurantID)
	require.Equal(t, "Thai Palace", c.RestaurantName)
	requireInvariant(t, c)
}

func TestAddMergesSameMenuItem(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 1,
		SpecialInstructions: strptr("extra spicy")}, "r1", "Thai Palace")
	mustAdd(t, c, "l2", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 2,
		SpecialInstructions: strptr("no peanuts")}, "r1", "Thai Palace")

	// Merge law: one line, summed quantity, existing fields kept.
	require.Equal(t, 1, c.LineCount())
	require.Equal(t, 3, c.ItemCount())
	require.Equal(t, "l1", c.Lines[0].ID)
	require.NotNil(t, c.Lines[0].SpecialInstructions)
	require.Equal(t, "extra spicy", *c.Lines[0].SpecialInstructions,
		"the candidate's instructions are dropped on the merge path")
	requireInvariant(t, c)
}

func TestAddFromDifferentRestaurantReplacesCart(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 2}, "r1", "Thai Palace")
	mustAdd(t, c, "l2", Candidate{MenuItemID: "m2", Name: "Margherita", Price: 9.0, Quantity: 1}, "r2", "Pizza Corner")

	// Restaurant-switch law: exactly one line, context switched.
	require.Equal(t, 1, c.LineCount())
	require.Equal(t, "m2", c.Lines[0].MenuItemID)
	require.Equal(t, "r2", c.RestaurantID)
	require.Equal(t, "Pizza Corner", c.RestaurantName)
	requireInvariant(t, c)
}

func TestRemoveLastLineResetsRestaurantContext(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 1}, "r1", "Thai Palace")

	c.Remove("l1")
	require.True(t, c.IsEmpty())
	require.Equal(t, "", c.RestaurantID)
	require.Equal(t, "", c.RestaurantName)
	requireInvariant(t, c)
}

func TestRemoveAbsentIDIsNoop(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 1}, "r1", "Thai Palace")

	c.Remove("nope")
	require.Equal(t, 1, c.LineCount())
	requireInvariant(t, c)
}

func TestSetQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -1} {
		c := New()
		mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 2}, "r1", "Thai Palace")

		c.SetQuantity("l1", qty)
		require.True(t, c.IsEmpty(), "quantity %d must behave as remove", qty)
		require.Equal(t, "", c.RestaurantID)
		requireInvariant(t, c)
	}
}

func TestSetQuantityReplacesOnlyQuantity(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 2,
		Image: strptr("padthai.jpg")}, "r1", "Thai Palace")

	c.SetQuantity("l1", 5)
	require.Equal(t, 5, c.Lines[0].Quantity)
	require.Equal(t, 11.5, c.Lines[0].Price)
	require.NotNil(t, c.Lines[0].Image)
	requireInvariant(t, c)
}

func TestTotalIsExactSum(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Burger", Price: 8.99, Quantity: 1}, "r1", "Burger Joint")
	mustAdd(t, c, "l2", Candidate{MenuItemID: "m2", Name: "Fries", Price: 3.99, Quantity: 2}, "r1", "Burger Joint")

	require.InDelta(t, 16.97, c.Total(), 1e-9)
	require.Equal(t, 3, c.ItemCount())
	require.Equal(t, 2, c.LineCount())
}

func TestClearResetsEverything(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 1}, "r1", "Thai Palace")

	c.Clear()
	require.True(t, c.IsEmpty())
	require.Equal(t, "", c.RestaurantID)
	requireInvariant(t, c)
}

func TestCloneIsDeep(t *testing.T) {
	c := New()
	mustAdd(t, c, "l1", Candidate{MenuItemID: "m1", Name: "Pad Thai", Price: 11.5, Quantity: 1,
		SpecialInstructions: strptr("mild")}, "r1", "Thai Palace")

	cp := c.Clone()
	c.SetQuantity("l1", 9)
	*c.Lines[0].SpecialInstructions = "hot"

	require.Equal(t, 1, cp.Lines[0].Quantity)
	require.Equal(t, "mild", *cp.Lines[0].SpecialInstructions)
}

// Full storefront scenario from the product walkthrough: merge, switch,
// quantity-zero to empty.
func TestScenarioMergeSwitchEmpty(t *testing.T) {
	c := New()

	mustAdd(t, c, "x1", Candidate{MenuItemID: "itemX", Name: "X", Price: 4.0, Quantity: 1}, "ra", "Restaurant A")
	mustAdd(t, c, "x2", Candidate{MenuItemID: "itemX", Name: "X", Price: 4.0, Quantity: 2}, "ra", "Restaurant A")
	require.Equal(t, 1, c.LineCount())
	require.Equal(t, 3, c.Lines[0].Quantity)

	mustAdd(t, c, "y1", Candidate{MenuItemID: "itemY", Name: "Y", Price: 6.0, Quantity: 1}, "rb", "Restaurant B")
	require.Equal(t, 1, c.LineCount())
	require.Equal(t, "itemY", c.Lines[0].MenuItemID)
	require.Equal(t, "rb", c.RestaurantID)

	c.SetQuantity("y1", 0)
	require.True(t, c.IsEmpty())
	require.Equal(t, "", c.RestaurantID)
	requireInvariant(t, c)
}

func TestAddRejectsMissingIdentityOrRestaurant(t *testing.T) {
	c := New()
	require.ErrorIs(t, c.Add("", Candidate{MenuItemID: "m1"}, "r1", "A"), ErrInvalidLine)
	require.ErrorIs(t, c.Add("l1", Candidate{}, "r1", "A"), ErrInvalidLine)
	require.ErrorIs(t, c.Add("l1", Candidate{MenuItemID: "m1"}, "", "A"), ErrInvalidLine)
	require.True(t, c.IsEmpty())
}
