package denote_test

import (
	"testing"

	"github.com/fwojciec/denote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite() *denote.Site {
	return denote.NewSite(denote.Config{
		Name: "Acme",
		Navigation: []denote.NavItem{
			{Title: "Introduction", Href: "/docs/introduction"},
			{Title: "Guides", Children: []denote.NavItem{
				{Title: "Install", Href: "/docs/guides/install"},
				{Title: "Deploy", Href: "/docs/guides/deploy"},
			}},
			{Title: "GitHub", Href: "https://github.com/acme"},
		},
	}, "", "/docs")
}

func TestFlattenNav(t *testing.T) {
	t.Parallel()

	links := denote.FlattenNav(testSite().Config.Navigation)

	assert.Equal(t, []denote.NavLink{
		{Title: "Introduction", Href: "/docs/introduction"},
		{Title: "Install", Href: "/docs/guides/install"},
		{Title: "Deploy", Href: "/docs/guides/deploy"},
		{Title: "GitHub", Href: "https://github.com/acme"},
	}, links)
}

func TestSite_PrevNext(t *testing.T) {
	t.Parallel()

	site := testSite()

	t.Run("middle page has both neighbours", func(t *testing.T) {
		t.Parallel()

		prev, next := site.PrevNext("/docs/guides/install")

		require.NotNil(t, prev)
		require.NotNil(t, next)
		assert.Equal(t, "/docs/introduction", prev.Href)
		assert.Equal(t, "/docs/guides/deploy", next.Href)
	})

	t.Run("first page has no previous", func(t *testing.T) {
		t.Parallel()

		prev, next := site.PrevNext("/docs/introduction")

		assert.Nil(t, prev)
		require.NotNil(t, next)
		assert.Equal(t, "Install", next.Title)
	})

	t.Run("unknown page has neither", func(t *testing.T) {
		t.Parallel()

		prev, next := site.PrevNext("/docs/missing")

		assert.Nil(t, prev)
		assert.Nil(t, next)
	})
}

func TestSite_Breadcrumbs(t *testing.T) {
	t.Parallel()

	site := testSite()

	t.Run("includes sections", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []denote.Breadcrumb{
			{Title: "Guides"},
			{Title: "Deploy", Href: "/docs/guides/deploy"},
		}, site.Breadcrumbs("/docs/guides/deploy"))
	})

	t.Run("top-level page", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []denote.Breadcrumb{
			{Title: "Introduction", Href: "/docs/introduction"},
		}, site.Breadcrumbs("/docs/introduction"))
	})

	t.Run("unknown page", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, site.Breadcrumbs("/docs/missing"))
	})
}

func TestSite_FirstHref(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/docs/introduction", testSite().FirstHref())
	assert.Equal(t, "/guide/introduction", denote.NewSite(denote.Config{}, "", "guide/").FirstHref())
}
