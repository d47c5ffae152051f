// Package devtools provides developer tools for inspecting generated maps.
package devtools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"mapforge/pkg/engine/geom"
	"mapforge/pkg/engine/terminal"
	"mapforge/pkg/engine/world"
	"mapforge/pkg/game/level"
)

const mapDumpFilename = "map.txt"

const (
	symWall      = '#'
	symFloor     = '.'
	symCorridor  = '+'
	symDoorway   = 'D'
	symFurniture = 'F'
	symSpawn     = 'E'
	symResource  = 'R'
	symPlayer    = '@'
)

var symbolStyles = map[rune]color.Style{
	symWall:      {color.FgGray},
	symFloor:     {color.FgWhite},
	symCorridor:  {color.FgCyan},
	symDoorway:   {color.FgYellow, color.OpBold},
	symFurniture: {color.FgBlue},
	symSpawn:     {color.FgRed, color.OpBold},
	symResource:  {color.FgGreen, color.OpBold},
	symPlayer:    {color.FgMagenta, color.OpBold},
}

// DumpOptions controls WriteDump.
type DumpOptions struct {
	Color bool
	// MaxWidth truncates grid rows; 0 means no limit.
	MaxWidth int
	// Legend adds the symbol legend and the room, corridor and object lists.
	Legend bool
}

// TerminalOptions returns options suited to f: colour when f is a colour
// terminal and rows cut to its width.
func TerminalOptions(f *os.File) DumpOptions {
	opts := DumpOptions{Color: terminal.SupportsColor(f)}
	if terminal.IsTerminal(f) {
		opts.MaxWidth, _ = terminal.Size(f)
	}
	return opts
}

// Symbols returns the map as rows of symbols, objects drawn over tiles and
// the player start drawn over everything.
func Symbols(m *level.Map) [][]rune {
	grid := level.Rasterize(m)
	rows := make([][]rune, m.Height)
	for y := range rows {
		rows[y] = make([]rune, m.Width)
	}
	grid.ForEachCell(func(x, y int, cell *world.Cell) {
		rows[y][x] = tileSymbol(cell)
	})

	stamp := func(fp geom.Rect, sym rune) {
		for _, p := range fp.Points() {
			if p.Y >= 0 && p.Y < m.Height && p.X >= 0 && p.X < m.Width {
				rows[p.Y][p.X] = sym
			}
		}
	}
	for _, f := range m.Furniture {
		stamp(f.Footprint(), symFurniture)
	}
	for _, r := range m.Resources {
		stamp(r.Footprint(), symResource)
	}
	for _, s := range m.SpawnPoints {
		stamp(s.Footprint(), symSpawn)
	}
	if m.SpawnRoom() != nil {
		stamp(geom.RectAt(m.PlayerSpawn, geom.Size{W: 1, H: 1}), symPlayer)
	}
	return rows
}

func tileSymbol(cell *world.Cell) rune {
	if cell == nil {
		return symWall
	}
	switch cell.Kind {
	case world.Floor:
		return symFloor
	case world.Corridor:
		return symCorridor
	case world.Doorway:
		return symDoorway
	default:
		return symWall
	}
}

// WriteDump writes the map grid to w, followed by the legend and detail
// sections when opts.Legend is set.
func WriteDump(w io.Writer, m *level.Map, opts DumpOptions) error {
	if m == nil {
		return fmt.Errorf("no map")
	}
	bw := bufio.NewWriter(w)

	if opts.Legend {
		writeMetadata(bw, m)
		fmt.Fprintln(bw, "--- Legend ---")
		fmt.Fprintln(bw, gotext.Get("# = wall  . = floor  + = corridor  D = doorway  F = furniture  E = enemy spawn  R = resource  @ = player start"))
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "--- Map ---")
	}

	writeMapGrid(bw, Symbols(m), opts)

	if opts.Legend {
		fmt.Fprintln(bw)
		writeRooms(bw, m)
		writeCorridors(bw, m)
		writeObjects(bw, m)
		fmt.Fprintln(bw, "=== END MAP DUMP ===")
	}
	return bw.Flush()
}

func writeMapGrid(w io.Writer, rows [][]rune, opts DumpOptions) {
	for _, row := range rows {
		cut := row
		if opts.MaxWidth > 0 && len(cut) > opts.MaxWidth {
			cut = cut[:opts.MaxWidth]
		}
		if !opts.Color {
			fmt.Fprintln(w, string(cut))
			continue
		}
		var sb strings.Builder
		for i := 0; i < len(cut); {
			// Runs of one symbol share a single escape sequence.
			j := i
			for j < len(cut) && cut[j] == cut[i] {
				j++
			}
			sb.WriteString(symbolStyles[cut[i]].Sprint(string(cut[i:j])))
			i = j
		}
		fmt.Fprintln(w, sb.String())
	}
}

func writeMetadata(w io.Writer, m *level.Map) {
	md := m.Metadata
	fmt.Fprintln(w, "=== MAP DUMP ===")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Metadata ---")
	fmt.Fprintf(w, "seed: %d\n", md.Seed)
	fmt.Fprintf(w, "width: %d\n", m.Width)
	fmt.Fprintf(w, "height: %d\n", m.Height)
	fmt.Fprintf(w, "difficulty: %d\n", md.Difficulty)
	if !md.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "generated_at: %s\n", md.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	fmt.Fprintf(w, "coordinate_system: x,y (0-based, x=horizontal, y=vertical)\n")
	fmt.Fprintf(w, "spawn_room: %d\n", m.SpawnRoomID)
	fmt.Fprintf(w, "player_start: %d,%d\n", m.PlayerSpawn.X, m.PlayerSpawn.Y)
	fmt.Fprintln(w)
}

func writeRooms(w io.Writer, m *level.Map) {
	fmt.Fprintln(w, "Rooms:")
	for _, r := range m.Rooms {
		b := r.Bounds
		fmt.Fprintf(w, "  id: %d name: %q type: %s x: %d y: %d w: %d h: %d core: %v critical: %v distance: %.0f connections: %v\n",
			r.ID, r.Name, r.Classification, b.X, b.Y, b.Width, b.Height, r.IsCore, r.IsOnCriticalPath, r.DistanceFromSpawn, r.Connections)
	}
	fmt.Fprintln(w)
}

func writeCorridors(w io.Writer, m *level.Map) {
	fmt.Fprintln(w, "Corridors:")
	for _, c := range m.Corridors {
		fmt.Fprintf(w, "  id: %d rooms: %d-%d tier: %s width: %d shape: %s length: %d\n",
			c.ID, c.RoomA, c.RoomB, c.Tier, c.Width, c.Shape, c.Length())
	}
	fmt.Fprintln(w)
}

func writeObjects(w io.Writer, m *level.Map) {
	fmt.Fprintln(w, "Furniture:")
	for _, f := range m.Furniture {
		fmt.Fprintf(w, "  id: %d room: %d x: %d y: %d type: %s asset: %s rotation: %d blocking: %v\n",
			f.ID, f.RoomID, f.Position.X, f.Position.Y, f.Type, f.Asset, f.Rotation, f.BlocksMovement)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Spawn points:")
	for _, s := range m.SpawnPoints {
		fmt.Fprintf(w, "  id: %d room: %d x: %d y: %d enemy: %s category: %s delay: %.1f\n",
			s.ID, s.RoomID, s.Position.X, s.Position.Y, s.EnemyType, s.Category, s.SpawnDelay)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Resources:")
	for _, r := range m.Resources {
		fmt.Fprintf(w, "  id: %d room: %d x: %d y: %d type: %s asset: %s quantity: %d value: %.2f\n",
			r.ID, r.RoomID, r.Position.X, r.Position.Y, r.Type, r.Asset, r.Quantity, r.Value)
	}
	fmt.Fprintln(w)
}

// DumpToFile writes a full uncoloured dump to path, or to map.txt in the
// working directory when path is empty. It returns the absolute path.
func DumpToFile(m *level.Map, path string) (string, error) {
	if path == "" {
		path = mapDumpFilename
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteDump(f, m, DumpOptions{Legend: true}); err != nil {
		return absPath, err
	}
	if err := f.Sync(); err != nil {
		return absPath, err
	}
	return absPath, nil
}

// Summary returns a short translated description of the map: room counts
// per type, corridors per tier and object totals.
func Summary(m *level.Map) string {
	if m == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(gotext.Get("%dx%d map, seed %d, difficulty %d", m.Width, m.Height, m.Metadata.Seed, m.Metadata.Difficulty))
	sb.WriteByte('\n')
	sb.WriteString(gotext.Get("%d rooms, %d corridors", len(m.Rooms), len(m.Corridors)))
	sb.WriteByte('\n')

	counts := make(map[level.RoomType]int)
	for _, r := range m.Rooms {
		counts[r.Classification]++
	}
	types := make([]level.RoomType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(&sb, "  %-18s %d\n", t.DisplayName(), counts[t])
	}

	tiers := make(map[level.Tier]int)
	for _, c := range m.Corridors {
		tiers[c.Tier]++
	}
	for _, t := range []level.Tier{level.Primary, level.Secondary, level.Fallback} {
		if tiers[t] > 0 {
			fmt.Fprintf(&sb, "  %s corridors: %d\n", t, tiers[t])
		}
	}

	sb.WriteString(gotext.Get("%d furniture, %d spawn points, %d resources", len(m.Furniture), len(m.SpawnPoints), len(m.Resources)))
	sb.WriteByte('\n')
	return sb.String()
}
