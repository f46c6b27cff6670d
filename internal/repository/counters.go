package repository

import (
	"database/sql"
)

// TaskChain is the ancestry of a task, resolved before any mutation so
// counter updates still know the board/workspace after the row is gone.
type TaskChain struct {
	TaskID      int
	ListID      int
	BoardID     int
	WorkspaceID int
	Completed   bool
}

func LookupTaskChain(db *sql.DB, taskID int) (TaskChain, error) {
	var ch TaskChain
	err := db.QueryRow(`
		SELECT t.id, t.list_id, l.board_id, b.workspace_id, t.task_status
		FROM tasks t
		JOIN lists l ON l.id = t.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE t.id = $1`,
		taskID).Scan(&ch.TaskID, &ch.ListID, &ch.BoardID, &ch.WorkspaceID, &ch.Completed)
	return ch, err
}

func LookupListChain(db *sql.DB, listID int) (boardID int, workspaceID int, err error) {
	err = db.QueryRow(`
		SELECT l.board_id, b.workspace_id
		FROM lists l
		JOIN boards b ON b.id = l.board_id
		WHERE l.id = $1`,
		listID).Scan(&boardID, &workspaceID)
	return boardID, workspaceID, err
}

// AdjustTaskCounters applies relative deltas to one board and its workspace
// inside the caller's transaction. The increments are single UPDATE
// statements so concurrent mutations never lose counts.
func AdjustTaskCounters(tx *sql.Tx, boardID, workspaceID, dTotal, dCompleted, dPending int) error {
	_, err := tx.Exec(`
		UPDATE boards
		SET tasks_total = tasks_total + $1,
			tasks_completed = tasks_completed + $2,
			tasks_pending = tasks_pending + $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`,
		dTotal, dCompleted, dPending, boardID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		UPDATE workspaces
		SET tasks_total = tasks_total + $1,
			tasks_completed = tasks_completed + $2,
			tasks_pending = tasks_pending + $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $4`,
		dTotal, dCompleted, dPending, workspaceID)
	return err
}

// CountTaskCreated records a new task. New tasks always enter the counters
// as pending, whatever status the create request carried.
func CountTaskCreated(tx *sql.Tx, boardID, workspaceID int) error {
	return AdjustTaskCounters(tx, boardID, workspaceID, 1, 0, 1)
}

// CountTaskStatusChanged moves one task between the pending and completed
// buckets. nowCompleted is the status after the change.
func CountTaskStatusChanged(tx *sql.Tx, boardID, workspaceID int, nowCompleted bool) error {
	if nowCompleted {
		return AdjustTaskCounters(tx, boardID, workspaceID, 0, 1, -1)
	}
	return AdjustTaskCounters(tx, boardID, workspaceID, 0, -1, 1)
}

// CountTaskDeleted removes a task from the counters using the status it had
// when the chain was looked up.
func CountTaskDeleted(tx *sql.Tx, boardID, workspaceID int, wasCompleted bool) error {
	if wasCompleted {
		return AdjustTaskCounters(tx, boardID, workspaceID, -1, -1, 0)
	}
	return AdjustTaskCounters(tx, boardID, workspaceID, -1, 0, -1)
}

// CountTaskMoved transfers one task's contribution from its old board to a
// new one when it changes lists across board boundaries. oldCompleted and
// newCompleted may differ when a move and a status change arrive together.
func CountTaskMoved(tx *sql.Tx, old TaskChain, newBoardID, newWorkspaceID int, oldCompleted, newCompleted bool) error {
	if err := CountTaskDeleted(tx, old.BoardID, old.WorkspaceID, oldCompleted); err != nil {
		return err
	}
	if newCompleted {
		return AdjustTaskCounters(tx, newBoardID, newWorkspaceID, 1, 1, 0)
	}
	return AdjustTaskCounters(tx, newBoardID, newWorkspaceID, 1, 0, 1)
}
