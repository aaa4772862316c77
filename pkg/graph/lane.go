package graph

// LaneType describes what a single lane cell contributes to the commit
// graph at one row. A commit's lane snapshot is one LaneType per lane
// that is open at that row.
type LaneType int

const (
	Empty      LaneType = iota // lane carries nothing at this row
	Active                     // straight line through the commit's own lane
	NotActive                  // straight line belonging to another branch
	MergeFork                  // commit node with connections both sides
	MergeForkR                 // commit node, connections to the right only
	MergeForkL                 // commit node, connections to the left only
	Join                       // merge parent joining from both sides
	JoinR                      // merge parent joining from the right
	JoinL                      // merge parent joining from the left
	Head                       // new lane opened for an unseen merge parent
	HeadR                      // rightmost opened lane
	HeadL                      // leftmost opened lane
	Tail                       // lane terminating into a fork
	TailR                      // rightmost terminating lane
	TailL                      // leftmost terminating lane
	Cross                      // horizontal connector over a passive lane
	CrossEmpty                 // horizontal connector over an empty lane
	Initial                    // root commit, lane ends here
	Branch                     // first row of a lane with no seen child
)

// IsNode reports whether t marks the commit's own cell.
func (t LaneType) IsNode() bool {
	return t >= MergeFork && t <= MergeForkL
}

// IsHead reports whether t opens a new lane.
func (t LaneType) IsHead() bool {
	return t >= Head && t <= HeadL
}

// IsTail reports whether t closes a lane into a fork.
func (t LaneType) IsTail() bool {
	return t >= Tail && t <= TailL
}

// IsJoin reports whether t routes a merge parent sideways.
func (t LaneType) IsJoin() bool {
	return t >= Join && t <= JoinL
}

// IsFreeLane reports whether t belongs to a branch line other than the
// commit's own: a straight passive line, a crossing, or a join.
func (t LaneType) IsFreeLane() bool {
	return t == NotActive || t == Cross || t.IsJoin()
}

// IsActive reports whether t is part of the commit's own branch line.
func (t LaneType) IsActive() bool {
	return t == Active || t == Initial || t == Branch || t.IsNode()
}
