package denote

// NavLink is a flattened navigation entry.
type NavLink struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Breadcrumb is one step in the trail to a page. Section crumbs have no Href.
type Breadcrumb struct {
	Title string `json:"title"`
	Href  string `json:"href,omitempty"`
}

// FlattenNav returns every item with an href in depth-first order.
func FlattenNav(items []NavItem) []NavLink {
	var links []NavLink
	for _, item := range items {
		if item.Href != "" {
			links = append(links, NavLink{Title: item.Title, Href: item.Href})
		}
		links = append(links, FlattenNav(item.Children)...)
	}
	return links
}

// PrevNext returns the pages before and after path in navigation order.
func (s *Site) PrevNext(path string) (prev, next *NavLink) {
	links := FlattenNav(s.Config.Navigation)
	for i := range links {
		if links[i].Href != path {
			continue
		}
		if i > 0 {
			prev = &links[i-1]
		}
		if i < len(links)-1 {
			next = &links[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// Breadcrumbs returns the trail of sections leading to path, ending with the
// page itself. Unknown paths return nil.
func (s *Site) Breadcrumbs(path string) []Breadcrumb {
	var find func(items []NavItem, parents []Breadcrumb) []Breadcrumb
	find = func(items []NavItem, parents []Breadcrumb) []Breadcrumb {
		for _, item := range items {
			if len(item.Children) > 0 {
				section := append(parents[:len(parents):len(parents)], Breadcrumb{Title: item.Title})
				if crumbs := find(item.Children, section); crumbs != nil {
					return crumbs
				}
			}
			if item.Href == path {
				return append(parents[:len(parents):len(parents)], Breadcrumb{Title: item.Title, Href: item.Href})
			}
		}
		return nil
	}
	return find(s.Config.Navigation, nil)
}

// FirstHref returns the first navigation href, falling back to the
// introduction page under the base path.
func (s *Site) FirstHref() string {
	if links := FlattenNav(s.Config.Navigation); len(links) > 0 {
		return links[0].Href
	}
	return s.DocPath("introduction")
}
