package pgnotify

import "fmt"

// NoteTriggerSQL installs a trigger that announces every insert and update
// on notes as {"note_id", "user_id"} on channel.
func NoteTriggerSQL(channel string) []string {
	if channel == "" {
		channel = DefaultChannel
	}
	return []string{
		fmt.Sprintf(`CREATE OR REPLACE FUNCTION notify_note_update() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('%s', json_build_object('note_id', NEW.id, 'user_id', NEW.user_id)::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;`, channel),
		`DROP TRIGGER IF EXISTS notes_notify_update ON notes;`,
		`CREATE TRIGGER notes_notify_update AFTER INSERT OR UPDATE ON notes
	FOR EACH ROW EXECUTE FUNCTION notify_note_update();`,
	}
}
