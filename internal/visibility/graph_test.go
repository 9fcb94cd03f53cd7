package visibility

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-summoners/internal/entity"
)

func TestSyncKnown(t *testing.T) {
	m := newTestMaintainer(t)
	c := monster("m")
	a := entity.NewPlayer("a", "Alice")
	b := entity.NewPlayer("b", "Bob")

	entered, left := m.SyncKnown(c, []*entity.Entity{c, a, b})
	testutil.AssertEqual(t, "entered", len(entered), 2)
	testutil.AssertEqual(t, "left", len(left), 0)

	m.TryAddVisibleTarget(c, a, false, false)

	entered, left = m.SyncKnown(c, []*entity.Entity{b})
	testutil.AssertEqual(t, "entered", len(entered), 0)
	testutil.AssertEqual(t, "left", len(left), 1)
	testutil.AssertEqual(t, "left id", left[0].ID, a.ID)
	testutil.AssertEqual(t, "known", m.IsKnown(c, a.ID), false)
	testutil.AssertEqual(t, "visible", m.IsVisibleTarget(c, a.ID), false)
}

func TestVisibleTargetsSubsetOfKnown(t *testing.T) {
	m := newTestMaintainer(t)
	c := monster("m")
	pet := entity.NewCombatPet("p", "Pet", entity.NewPlayer("o", "Owner"))
	a := entity.NewPlayer("a", "Alice")

	m.AddVisibleTargets(c, []*entity.Entity{pet, a}, false)

	for _, observer := range []*entity.Entity{c, pet} {
		for _, v := range m.VisibleTargets(observer) {
			if !m.IsKnown(observer, v.ID) {
				t.Errorf("%s targets %s without knowing it", observer.ID, v.ID)
			}
		}
	}
}

func TestRemoveEntity(t *testing.T) {
	m := newTestMaintainer(t)
	c := monster("m")
	pet := entity.NewCombatPet("p", "Pet", entity.NewPlayer("o", "Owner"))

	m.TryAddVisibleTarget(c, pet, false, false)
	m.RemoveEntity(pet.ID)

	testutil.AssertEqual(t, "creature targets", len(m.VisibleTargets(c)), 0)
	testutil.AssertEqual(t, "creature knows", m.IsKnown(c, pet.ID), false)
	testutil.AssertEqual(t, "pet node", len(m.KnownObjects(pet)), 0)
}

func TestVisibleObjects(t *testing.T) {
	m := newTestMaintainer(t)
	c := monster("m")
	a := entity.NewPlayer("a", "Alice")
	door := &entity.Entity{ID: "door", Category: entity.CategoryOther}

	m.AddKnownObject(c, a)
	m.AddKnownObject(c, door)

	testutil.AssertEqual(t, "all", len(m.VisibleObjects(c, KindAll)), 2)
	testutil.AssertEqual(t, "players", len(m.VisibleObjects(c, KindPlayers)), 1)
	testutil.AssertEqual(t, "repeat add", m.AddKnownObject(c, a), false)
}
