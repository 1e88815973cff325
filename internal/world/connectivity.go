package world

import (
	"errors"

	"github.com/dominikbraun/graph"
)

// Graph exports the room links as an undirected graph keyed by coordinate.
func (d *Dungeon) Graph() (graph.Graph[Coordinate, *Room], error) {
	g := graph.New(func(r *Room) Coordinate { return r.coord })
	for _, room := range d.order {
		if err := g.AddVertex(room); err != nil {
			return nil, err
		}
	}
	for _, room := range d.order {
		for _, dir := range AllDirections() {
			nb := room.neighbors[dir]
			if nb == nil {
				continue
			}
			err := g.AddEdge(room.coord, nb.coord)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}
	return g, nil
}

// Reachable returns the number of rooms reachable from the origin through neighbor links.
// A fully connected dungeon returns RoomCount().
func (d *Dungeon) Reachable() (int, error) {
	if d.initial == nil {
		return 0, nil
	}
	g, err := d.Graph()
	if err != nil {
		return 0, err
	}
	count := 0
	err = graph.BFS(g, d.initial.coord, func(Coordinate) bool {
		count++
		return false
	})
	return count, err
}

// PathFromOrigin returns the shortest chain of coordinates from the origin to c through
// neighbor links.
func (d *Dungeon) PathFromOrigin(c Coordinate) ([]Coordinate, error) {
	g, err := d.Graph()
	if err != nil {
		return nil, err
	}
	return graph.ShortestPath(g, Origin, c)
}
