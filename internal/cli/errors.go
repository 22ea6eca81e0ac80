package cli

import (
	"fmt"

	"docdesk/internal/access"
)

type workspaceNotEmptyError struct {
	dir string
}

func (e workspaceNotEmptyError) Error() string {
	return fmt.Sprintf("workspace already has documents: %s", e.dir)
}

func errWorkspaceNotEmpty(dir string) error {
	return workspaceNotEmptyError{dir: dir}
}

type permissionError struct {
	accountID string
	docID     string
}

func (e permissionError) Error() string {
	return fmt.Sprintf("permission denied: account %s cannot edit %s", e.accountID, e.docID)
}

func errCannotEdit(accountID, docID string) error {
	return permissionError{accountID: accountID, docID: docID}
}

type accessNotSettableError struct {
	level access.Level
}

func (e accessNotSettableError) Error() string {
	return fmt.Sprintf("access %q cannot be set directly (use private, organization or public)", e.level)
}
