package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shestoi/rivalsyndicate/internal/repository"
)

func TestServices(t *testing.T) {
	s := Services()
	require.Len(t, s, 2)
	require.Equal(t, repository.ServicePriorityFarm, s[0].ID)
	require.Equal(t, 10, s[1].PriceModifier)

	// Копия: изменения вызывающего не влияют на каталог
	s[0].Name = "changed"
	require.Equal(t, "Priority Farm", Services()[0].Name)
}

func TestCharacters(t *testing.T) {
	all := Characters()
	require.Len(t, all, 3)
	require.Len(t, all[repository.ClassDuelist], 23)
	require.Len(t, all[repository.ClassVanguard], 12)
	require.Len(t, all[repository.ClassStrategist], 10)

	for class, list := range all {
		for _, c := range list {
			require.NotEmpty(t, c.ID, class)
			require.Positive(t, c.BasePrice, c.ID)
			if c.Icon != nil {
				require.True(t, strings.HasSuffix(*c.Icon, "%20Deluxe%20Avatar.png"), c.ID)
			}
		}
	}
}

func TestByClass(t *testing.T) {
	require.Empty(t, ByClass("healer"))
	require.Equal(t, "thor", ByClass(repository.ClassVanguard)[0].ID)
}

func TestLookup(t *testing.T) {
	c, class, ok := Lookup("rogue")
	require.True(t, ok)
	require.Equal(t, repository.ClassVanguard, class)
	require.Nil(t, c.Icon)

	_, _, ok = Lookup("nobody")
	require.False(t, ok)
}
