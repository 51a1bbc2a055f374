package game

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thornevale/runedelve/internal/gridview"
)

// Save-file parse failures, wrapped in a LoadError carrying the line number.
var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnknownUnique    = errors.New("unknown unique")
	ErrUnknownComponent = errors.New("unknown component")
	ErrDuplicateUnique  = errors.New("duplicate unique")
	ErrUnknownEntity    = errors.New("unknown entity reference")
	ErrMissingUnique    = errors.New("missing unique")
)

// LoadError reports where and why loading a save failed.  Loading aborts on
// the first error and discards every partially-created entity; the caller's
// world is untouched.
type LoadError struct {
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("save line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("save: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// runPair is one [value, run_length] span of a run-length-encoded grid.
type runPair [2]int

func encodeRuns(values []int) []runPair {
	var runs []runPair
	for _, v := range values {
		if n := len(runs); n > 0 && runs[n-1][0] == v {
			runs[n-1][1]++
		} else {
			runs = append(runs, runPair{v, 1})
		}
	}
	return runs
}

func decodeRuns(runs []runPair, want int) ([]int, error) {
	values := make([]int, 0, want)
	for _, r := range runs {
		if r[1] < 0 {
			return nil, fmt.Errorf("negative run length")
		}
		for i := 0; i < r[1]; i++ {
			values = append(values, r[0])
		}
	}
	if len(values) != want {
		return nil, fmt.Errorf("run-length data covers %d cells, want %d", len(values), want)
	}
	return values, nil
}

type savedMap struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Depth  int32     `json:"depth"`
	Tiles  []runPair `json:"tiles"`
	Seen   []runPair `json:"seen"`
}

type savedRenderable struct {
	Sym GameSym        `json:"sym"`
	Fg  gridview.Color `json:"fg"`
}

type savedHealth struct {
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
}

type savedEquipment struct {
	Weapon EntityID `json:"weapon"`
	Armor  EntityID `json:"armor"`
}

type savedItem struct {
	Heal int `json:"heal"`
}

type savedSight struct {
	Range int `json:"range"`
}

func writeRecord(bw *bufio.Writer, id, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(bw, "%s\t%s\t%s\n", id, name, data)
	return err
}

// Save writes the world as one tab-delimited record per line: uniques as
// "*<TAB>name<TAB>json", entity components as "id<TAB>name<TAB>json".
// Grids are run-length-encoded.
func Save(w *World, out io.Writer) error {
	bw := bufio.NewWriter(out)

	if err := writeRecord(bw, "*", "GameSeed", w.Seed); err != nil {
		return err
	}
	if err := writeRecord(bw, "*", "TurnCount", w.TurnCount); err != nil {
		return err
	}
	if err := writeRecord(bw, "*", "PlayerId", w.PlayerID); err != nil {
		return err
	}

	tiles := make([]int, len(w.Map.tiles))
	for i, t := range w.Map.tiles {
		tiles[i] = int(t)
	}
	seen := make([]int, w.Map.Width*w.Map.Height)
	for y := 0; y < w.Map.Height; y++ {
		for x := 0; x < w.Map.Width; x++ {
			if w.Map.Seen.Get(x, y) {
				seen[y*w.Map.Width+x] = 1
			}
		}
	}
	sm := savedMap{
		Width:  w.Map.Width,
		Height: w.Map.Height,
		Depth:  w.Map.Depth,
		Tiles:  encodeRuns(tiles),
		Seen:   encodeRuns(seen),
	}
	if err := writeRecord(bw, "*", "Map", sm); err != nil {
		return err
	}

	for _, e := range w.sortedEntities() {
		id := strconv.Itoa(int(e.ID))
		if err := writeRecord(bw, id, "Name", e.Name); err != nil {
			return err
		}
		if e.HasPos {
			if err := writeRecord(bw, id, "Position", e.Pos); err != nil {
				return err
			}
		}
		if err := writeRecord(bw, id, "Renderable", savedRenderable{e.Sym, e.Fg}); err != nil {
			return err
		}
		if e.BlocksMove {
			if err := writeRecord(bw, id, "Blocks", true); err != nil {
				return err
			}
		}
		if e.MaxHP > 0 {
			if err := writeRecord(bw, id, "Health", savedHealth{e.HP, e.MaxHP}); err != nil {
				return err
			}
			if err := writeRecord(bw, id, "Attack", e.Attack); err != nil {
				return err
			}
		}
		if e.FOV != nil {
			if err := writeRecord(bw, id, "Sight", savedSight{e.FOV.Range}); err != nil {
				return err
			}
		}
		if len(e.Inventory) > 0 {
			if err := writeRecord(bw, id, "Inventory", e.Inventory); err != nil {
				return err
			}
		}
		if e.Weapon != NoEntity || e.Armor != NoEntity {
			if err := writeRecord(bw, id, "Equipment", savedEquipment{e.Weapon, e.Armor}); err != nil {
				return err
			}
		}
		if e.Item {
			if err := writeRecord(bw, id, "Item", savedItem{e.HealAmount}); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// stagedEntity accumulates one save-file entity before remapping.
type stagedEntity struct {
	e         *Entity
	inventory []EntityID
	equipment savedEquipment
}

// Load reads a save and builds a fresh world from it.  Entity IDs in the
// file are remapped to new registry IDs; references inside records follow
// the remapping.  On any error the partial world is discarded.  A record that
// fails to parse is reported with its line number; problems found after the
// whole file is read (a missing unique, bad map data, an unknown entity
// reference) are reported with line 0.
func Load(in io.Reader) (*World, error) {
	var (
		seed      uint64
		turnCount uint64
		playerID  EntityID
		mapData   *savedMap
	)
	seenUniques := map[string]bool{}
	staged := map[EntityID]*stagedEntity{}
	var order []EntityID

	fail := func(line int, err error) (*World, error) {
		return nil, &LoadError{Line: line, Err: err}
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<24)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return fail(lineNo, ErrMalformedRecord)
		}
		idField, name, payload := parts[0], parts[1], parts[2]

		if idField == "*" {
			if seenUniques[name] {
				return fail(lineNo, fmt.Errorf("%w: %s", ErrDuplicateUnique, name))
			}
			seenUniques[name] = true
			var err error
			switch name {
			case "GameSeed":
				err = json.Unmarshal([]byte(payload), &seed)
			case "TurnCount":
				err = json.Unmarshal([]byte(payload), &turnCount)
			case "PlayerId":
				err = json.Unmarshal([]byte(payload), &playerID)
			case "Map":
				mapData = &savedMap{}
				err = json.Unmarshal([]byte(payload), mapData)
			default:
				return fail(lineNo, fmt.Errorf("%w: %s", ErrUnknownUnique, name))
			}
			if err != nil {
				return fail(lineNo, fmt.Errorf("%w: %v", ErrMalformedRecord, err))
			}
			continue
		}

		oldID, err := strconv.Atoi(idField)
		if err != nil || oldID <= 0 {
			return fail(lineNo, ErrMalformedRecord)
		}
		st := staged[EntityID(oldID)]
		if st == nil {
			st = &stagedEntity{e: &Entity{}}
			staged[EntityID(oldID)] = st
			order = append(order, EntityID(oldID))
		}

		switch name {
		case "Name":
			err = json.Unmarshal([]byte(payload), &st.e.Name)
		case "Position":
			err = json.Unmarshal([]byte(payload), &st.e.Pos)
			st.e.HasPos = err == nil
		case "Renderable":
			var r savedRenderable
			if err = json.Unmarshal([]byte(payload), &r); err == nil {
				st.e.Sym = r.Sym
				st.e.Fg = r.Fg
			}
		case "Blocks":
			err = json.Unmarshal([]byte(payload), &st.e.BlocksMove)
		case "Health":
			var h savedHealth
			if err = json.Unmarshal([]byte(payload), &h); err == nil {
				st.e.HP = h.HP
				st.e.MaxHP = h.MaxHP
			}
		case "Attack":
			err = json.Unmarshal([]byte(payload), &st.e.Attack)
		case "Sight":
			var s savedSight
			if err = json.Unmarshal([]byte(payload), &s); err == nil {
				st.e.FOV = NewFieldOfView(s.Range)
			}
		case "Inventory":
			err = json.Unmarshal([]byte(payload), &st.inventory)
		case "Equipment":
			err = json.Unmarshal([]byte(payload), &st.equipment)
		case "Item":
			var it savedItem
			if err = json.Unmarshal([]byte(payload), &it); err == nil {
				st.e.Item = true
				st.e.HealAmount = it.Heal
			}
		default:
			return fail(lineNo, fmt.Errorf("%w: %s", ErrUnknownComponent, name))
		}
		if err != nil {
			return fail(lineNo, fmt.Errorf("%w: %v", ErrMalformedRecord, err))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, unique := range []string{"GameSeed", "TurnCount", "PlayerId", "Map"} {
		if !seenUniques[unique] {
			return fail(0, fmt.Errorf("%w: %s", ErrMissingUnique, unique))
		}
	}

	w := NewWorld(seed)
	w.TurnCount = turnCount

	m := NewMap(mapData.Width, mapData.Height)
	m.Depth = mapData.Depth
	tiles, err := decodeRuns(mapData.Tiles, mapData.Width*mapData.Height)
	if err != nil {
		return fail(0, fmt.Errorf("%w: map tiles: %v", ErrMalformedRecord, err))
	}
	for i, v := range tiles {
		m.tiles[i] = Tile(v)
	}
	seenBits, err := decodeRuns(mapData.Seen, mapData.Width*mapData.Height)
	if err != nil {
		return fail(0, fmt.Errorf("%w: seen bitmap: %v", ErrMalformedRecord, err))
	}
	for i, v := range seenBits {
		if v != 0 {
			m.Seen.Set(i%mapData.Width, i/mapData.Width, true)
		}
	}
	w.Map = m

	// Spawn in file order, then remap every cross-entity reference.
	remap := make(map[EntityID]EntityID, len(order))
	for _, oldID := range order {
		remap[oldID] = w.Spawn(staged[oldID].e)
	}
	lookup := func(oldID EntityID) (EntityID, error) {
		if oldID == NoEntity {
			return NoEntity, nil
		}
		newID, ok := remap[oldID]
		if !ok {
			return NoEntity, fmt.Errorf("%w: %d", ErrUnknownEntity, oldID)
		}
		return newID, nil
	}
	for _, oldID := range order {
		st := staged[oldID]
		e := st.e
		for _, ref := range st.inventory {
			newRef, err := lookup(ref)
			if err != nil {
				return fail(0, err)
			}
			e.Inventory = append(e.Inventory, newRef)
		}
		if e.Weapon, err = lookup(st.equipment.Weapon); err != nil {
			return fail(0, err)
		}
		if e.Armor, err = lookup(st.equipment.Armor); err != nil {
			return fail(0, err)
		}
	}

	if w.PlayerID, err = lookup(playerID); err != nil {
		return fail(0, err)
	}

	return w, nil
}
