package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/slayloop/party-server-go/internal/game/cards"
	"github.com/slayloop/party-server-go/internal/game/rules"
	"github.com/slayloop/party-server-go/internal/game/state"
)

// Snapshot is a complete copy of one room's game state, captured for
// divergence checks and replay.
type Snapshot struct {
	RoomID      string
	Players     map[string]*Player
	PlayerOrder []string
	Turn        *rules.Turn

	SupportDeck      []cards.Card
	Cache            []cards.Card
	DiscardPile      []cards.Card
	MonsterPile      []cards.Card
	SlainMonsterPile []cards.Card

	Timestamp time.Time
}

// SnapshotChecksum is a deterministic digest of a snapshot, independent of
// map iteration order and capture time.
type SnapshotChecksum struct {
	Hash      string
	Timestamp string
	Version   int
}

// TakeSnapshot deep-copies the room's current state.
func TakeSnapshot(ctx state.Context) *Snapshot {
	snap := &Snapshot{
		RoomID:      ctx.RoomID,
		Players:     make(map[string]*Player),
		PlayerOrder: append([]string(nil), playerOrder(ctx)...),
		Timestamp:   time.Now(),
	}

	for _, id := range ctx.Players.Keys() {
		if p, err := getPlayer(ctx, id); err == nil {
			snap.Players[id] = p.clone()
		}
	}
	if turn, ok := loadTurn(ctx); ok {
		cp := *turn
		cp.Queue = append([]rules.Action(nil), turn.Queue...)
		cp.PlayedCards = append([]string(nil), turn.PlayedCards...)
		cp.Modifiers = append([]rules.RollModifier(nil), turn.Modifiers...)
		snap.Turn = &cp
	}
	snap.SupportDeck = append([]cards.Card(nil), sharedPile(ctx, keySupportDeck)...)
	snap.Cache = append([]cards.Card(nil), sharedPile(ctx, keyCache)...)
	snap.DiscardPile = append([]cards.Card(nil), sharedPile(ctx, keyDiscardPile)...)
	snap.MonsterPile = append([]cards.Card(nil), sharedPile(ctx, keyMonsterPile)...)
	snap.SlainMonsterPile = append([]cards.Card(nil), sharedPile(ctx, keySlainMonsterPile)...)
	return snap
}

// ComputeChecksum generates the deterministic checksum of the snapshot.
func (s *Snapshot) ComputeChecksum() (*SnapshotChecksum, error) {
	data := s.buildDeterministicRepresentation()

	hash := sha256.New()
	if _, err := hash.Write([]byte(data)); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}

	return &SnapshotChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: s.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		Version:   1,
	}, nil
}

// buildDeterministicRepresentation creates a canonical string form of the
// state: players sorted by id, container order preserved where it matters.
func (s *Snapshot) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("ROOM:%s\n", s.RoomID))

	playerIDs := make([]string, 0, len(s.Players))
	for id := range s.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)

	for _, id := range playerIDs {
		p := s.Players[id]
		buf.WriteString(fmt.Sprintf("PLAYER:%s|%s|%d\n", id, p.Name, p.ActionPoints))

		// Hand and deck order is significant for auto-selection, keep it.
		buf.WriteString("  HAND:" + strings.Join(cards.IDs(p.Hand), ",") + "\n")
		buf.WriteString("  DECK:" + strings.Join(cards.IDs(p.Deck), ",") + "\n")

		leader := "-"
		if p.Party.Leader != nil {
			leader = p.Party.Leader.ID
		}
		buf.WriteString("  LEADER:" + leader + "\n")
		slots := make([]string, len(p.Party.Heroes))
		for i, h := range p.Party.Heroes {
			if h == nil {
				slots[i] = "-"
			} else {
				slots[i] = h.ID
			}
		}
		buf.WriteString("  HEROES:" + strings.Join(slots, ",") + "\n")
	}

	for _, pile := range []struct {
		name  string
		cards []cards.Card
	}{
		{"SUPPORT_DECK", s.SupportDeck},
		{"CACHE", s.Cache},
		{"DISCARD_PILE", s.DiscardPile},
		{"MONSTER_PILE", s.MonsterPile},
		{"SLAIN_MONSTER_PILE", s.SlainMonsterPile},
	} {
		buf.WriteString(pile.name + ":" + strings.Join(cards.IDs(pile.cards), ",") + "\n")
	}

	if s.Turn != nil {
		buf.WriteString(fmt.Sprintf("TURN:%s|%d|%d\n",
			s.Turn.PlayerID, s.Turn.ActionPoints, len(s.Turn.Queue)))
		for i, a := range s.Turn.Queue {
			buf.WriteString(fmt.Sprintf("  %d:%s|%s\n", i, a.Name, a.State))
		}
		buf.WriteString("PLAYED:" + strings.Join(s.Turn.PlayedCards, ",") + "\n")
	}

	buf.WriteString("PLAYER_ORDER:" + strings.Join(s.PlayerOrder, ",") + "\n")
	return buf.String()
}

// CardCount totals every card in the snapshot across all containers.
func (s *Snapshot) CardCount() int {
	total := len(s.SupportDeck) + len(s.Cache) + len(s.DiscardPile) +
		len(s.MonsterPile) + len(s.SlainMonsterPile)
	for _, p := range s.Players {
		total += len(p.Hand) + len(p.Deck)
		if p.Party.Leader != nil {
			total++
		}
		for _, h := range p.Party.Heroes {
			if h != nil {
				total++
			}
		}
	}
	return total
}

// SerializeToBytes encodes the snapshot with gob.
func (s *Snapshot) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeSnapshot decodes a gob-encoded snapshot.
func DeserializeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// VerifyChecksum reports whether the snapshot matches an expected digest.
func (s *Snapshot) VerifyChecksum(expected *SnapshotChecksum) (bool, error) {
	computed, err := s.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}
