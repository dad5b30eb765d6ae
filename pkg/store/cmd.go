package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	. "src.tsrepl.dev/pkg/store/storedefs"
)

func init() {
	initDB["initialize command history table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	}
}

var now = time.Now

// On-disk form of a history entry.
type cmdRecord struct {
	Text    string `json:"text"`
	Session string `json:"session,omitempty"`
	Time    int64  `json:"time,omitempty"`
}

// NextCmdSeq returns the next sequence number of the command history.
func (s *dbStore) NextCmdSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		seq = b.Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddCmd adds a new input to the command history, recording the session it
// was entered in.
func (s *dbStore) AddCmd(text, session string) (int, error) {
	value, err := json.Marshal(cmdRecord{Text: text, Session: session, Time: now().Unix()})
	if err != nil {
		return 0, err
	}
	var seq uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), value)
	})
	return int(seq), err
}

// Cmd queries the command history item with the specified sequence number.
func (s *dbStore) Cmd(seq int) (Cmd, error) {
	var cmd Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		v := b.Get(marshalSeq(uint64(seq)))
		if v == nil {
			return ErrNoMatchingCmd
		}
		cmd = unmarshalCmd(seq, v)
		return nil
	})
	return cmd, err
}

// CmdsWithSeq returns all commands within the specified range. A from below
// 1 starts from the oldest command.
func (s *dbStore) CmdsWithSeq(from, upto int) ([]Cmd, error) {
	if from < 1 {
		from = 1
	}
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		c := b.Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			cmds = append(cmds, unmarshalCmd(int(unmarshalSeq(k)), v))
		}
		return nil
	})
	return cmds, err
}

func unmarshalCmd(seq int, v []byte) Cmd {
	var rec cmdRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		// Entries that are not JSON are stored as plain text.
		rec = cmdRecord{Text: string(v)}
	}
	return Cmd{Text: rec.Text, Seq: seq, Session: rec.Session}
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
