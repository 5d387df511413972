package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPreservesInsertionOrder(t *testing.T) {
	c := NewCatalog()
	c.AddMethod("IZeta", &Method{Name: "B"})
	c.AddMethod("IAlpha", &Method{Name: "A"})
	c.AddMethod("IZeta", &Method{Name: "A"})

	assert.Equal(t, []string{"IZeta", "IAlpha"}, c.Names())

	zeta, ok := c.Interface("IZeta")
	require.True(t, ok)
	assert.Equal(t, []string{"B", "A"}, zeta.MethodNames())

	assert.Equal(t, []SearchEntry{
		{Interface: "IZeta", Method: "B"},
		{Interface: "IZeta", Method: "A"},
		{Interface: "IAlpha", Method: "A"},
	}, c.Entries())
}

func TestCatalogAddMergesRepeatedInterface(t *testing.T) {
	c := NewCatalog()
	first := NewInterface("ISteamUser")
	first.Add(&Method{Name: "GetFriendList"})
	c.Add(first)

	second := NewInterface("ISteamUser")
	second.Add(&Method{Name: "GetPlayerSummaries", Version: 2})
	c.Add(second)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.MethodCount())

	m, ok := c.Method("ISteamUser", "GetPlayerSummaries")
	require.True(t, ok)
	assert.Equal(t, 2, m.Version)
}

func TestInterfaceAddReplacesInPlace(t *testing.T) {
	i := NewInterface("I")
	i.Add(&Method{Name: "A", Version: 1})
	i.Add(&Method{Name: "B"})
	i.Add(&Method{Name: "A", Version: 2})

	assert.Equal(t, []string{"A", "B"}, i.MethodNames())
	m, _ := i.Method("A")
	assert.Equal(t, 2, m.Version)
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var c *Catalog
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Names())
	_, ok := c.Method("I", "M")
	assert.False(t, ok)
}

func TestZeroCatalogAdd(t *testing.T) {
	var c Catalog
	c.AddMethod("ISteamUser", &Method{Name: "GetFriendList"})
	c.Add(&Interface{Name: "IPlayerService"})
	c.AddMethod("ISteamUser", &Method{Name: "GetPlayerSummaries"})

	assert.Equal(t, []string{"ISteamUser", "IPlayerService"}, c.Names())
	m, ok := c.Method("ISteamUser", "GetPlayerSummaries")
	require.True(t, ok)
	assert.Equal(t, "GetPlayerSummaries", m.Name)
}

func TestSplitQualified(t *testing.T) {
	iface, method, ok := SplitQualified("ISteamUser/GetPlayerSummaries")
	assert.True(t, ok)
	assert.Equal(t, "ISteamUser", iface)
	assert.Equal(t, "GetPlayerSummaries", method)

	_, _, ok = SplitQualified("ISteamUser")
	assert.False(t, ok)

	assert.Equal(t, "A/B", QualifiedName("A", "B"))
}
