package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/recordsdesk/internal/record"
)

// recordFlags holds the per-field flags of create and update.
type recordFlags struct {
	values map[string]*string
}

// addRecordFlags registers --name, --phone, --email, --security and --revenue.
func addRecordFlags(cmd *cobra.Command) *recordFlags {
	rf := &recordFlags{values: make(map[string]*string, len(record.Fields))}
	for _, field := range record.Fields {
		v := new(string)
		name := strings.ToLower(field)
		cmd.Flags().StringVar(v, name, "", field+" of the record")
		rf.values[name] = v
	}
	return rf
}

// apply sets every flag the user passed onto d. Flags left unset keep the
// draft's value.
func (rf *recordFlags) apply(cmd *cobra.Command, d record.Draft) record.Draft {
	for _, field := range record.Fields {
		name := strings.ToLower(field)
		if cmd.Flags().Changed(name) {
			d = d.SetField(field, *rf.values[name])
		}
	}
	return d
}
