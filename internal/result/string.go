package result

import (
	"fmt"

	"github.com/atlanticdynamic/scriptsvc/internal/fancy"
)

// Tree renders the set as a styled tree for the CLI.
func (s *Set) Tree(title string) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(title) + " " + fancy.InfoStyle.Render(fmt.Sprintf("(%d items)", s.Len())))

	for i := range s.Len() {
		it := s.items[i]
		label := fancy.ItemText(fmt.Sprintf("[%d]", i))
		if it.Kind() != KindRecord {
			t.Child(fmt.Sprintf("%s %s %s", label, it.String(), fancy.SummaryText(it.Kind().String())))
			continue
		}
		branch := fancy.BranchNode(label, fmt.Sprintf("record, %d fields", len(it.fields)))
		for _, name := range it.FieldNames() {
			f := it.fields[name]
			branch.Child(fmt.Sprintf("%s = %s", fancy.FieldText(name), f.String()))
		}
		t.Child(branch)
	}
	return t.String()
}
