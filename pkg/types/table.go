package types

type TableName string

func (t TableName) Name() string {
	return string(t)
}

const (
	TABLE_JOURNAL_ENTRY      TableName = "stellar_journal_entry"
	TABLE_JOURNAL_CONNECTION TableName = "stellar_journal_connection"
	TABLE_USER               TableName = "stellar_user"
)
