package league

import (
	"fmt"
	"time"
)

type courtSlotKey struct {
	club         ClubID
	dateStr      string
	concurrency  int
}

// League is the arena owning every entity created for one scheduling run.
// All entities are constructed in one pass from configuration (via the Add*
// methods below), then become immutable once GenerateFixtures has run.
type League struct {
	Clubs      []Club
	Teams      []Team
	Dates      []Date
	CourtSlots []CourtSlot
	Fixtures   []Fixture
	FCSes      []FCS

	clubByName map[string]ClubID
	teamByName map[string]TeamID
	dateByStr  map[string]DateID
	slotByKey  map[courtSlotKey]CourtSlotID
}

// New creates an empty league arena.
func New() *League {
	return &League{
		clubByName: make(map[string]ClubID),
		teamByName: make(map[string]TeamID),
		dateByStr:  make(map[string]DateID),
		slotByKey:  make(map[courtSlotKey]CourtSlotID),
	}
}

// RebuildIndex repopulates the name/key lookup maps from the entity slices.
// The maps are unexported so gob (and any other struct-only serializer)
// never encodes them; a league decoded from the cache must call this once
// before ClubByName, TeamByName, DateByStr or AddCourtSlot's
// duplicate-slot check are used again.
func (lg *League) RebuildIndex() {
	lg.clubByName = make(map[string]ClubID, len(lg.Clubs))
	for i := range lg.Clubs {
		lg.clubByName[lg.Clubs[i].Name] = lg.Clubs[i].ID
	}

	lg.teamByName = make(map[string]TeamID, len(lg.Teams))
	for i := range lg.Teams {
		t := &lg.Teams[i]
		lg.teamByName[t.Name(lg.Clubs[t.Club].Name)] = t.ID
	}

	lg.dateByStr = make(map[string]DateID, len(lg.Dates))
	for i := range lg.Dates {
		lg.dateByStr[lg.Dates[i].DateStr] = lg.Dates[i].ID
	}

	lg.slotByKey = make(map[courtSlotKey]CourtSlotID, len(lg.CourtSlots))
	for i := range lg.CourtSlots {
		cs := &lg.CourtSlots[i]
		key := courtSlotKey{club: cs.Club, dateStr: lg.Dates[cs.Date].DateStr, concurrency: cs.ConcurrencyIndex}
		lg.slotByKey[key] = cs.ID
	}
}

// AddClub registers a club by name. Club names must be unique.
func (lg *League) AddClub(name string) (ClubID, error) {
	if _, ok := lg.clubByName[name]; ok {
		return 0, configErrorf("club %q already exists", name)
	}
	id := ClubID(len(lg.Clubs))
	lg.Clubs = append(lg.Clubs, Club{ID: id, Name: name})
	lg.clubByName[name] = id
	return id, nil
}

// ClubByName looks up a club's ID, for ingestion code building cross-references.
func (lg *League) ClubByName(name string) (ClubID, bool) {
	id, ok := lg.clubByName[name]
	return id, ok
}

// AddTeam registers a team for a club. Division defaults to 0 and must be
// set later via SetDivision before GenerateFixtures is called.
func (lg *League) AddTeam(club ClubID, leagueName, rank, availabilityGroup string) (TeamID, error) {
	if int(club) < 0 || int(club) >= len(lg.Clubs) {
		return 0, configErrorf("unknown club id %d", club)
	}
	id := TeamID(len(lg.Teams))
	team := Team{
		ID:              id,
		Club:            club,
		League:          leagueName,
		Rank:            rank,
		AvailabilityGrp: availabilityGroup,
	}
	lg.Teams = append(lg.Teams, team)
	lg.Clubs[club].Teams = append(lg.Clubs[club].Teams, id)

	name := lg.TeamName(id)
	if _, dup := lg.teamByName[name]; dup {
		return 0, configErrorf("team %q already exists", name)
	}
	lg.teamByName[name] = id
	return id, nil
}

// TeamByName looks up a team's ID by its "club league rank" name.
func (lg *League) TeamByName(name string) (TeamID, bool) {
	id, ok := lg.teamByName[name]
	return id, ok
}

// TeamName returns a team's stable identifier.
func (lg *League) TeamName(t TeamID) string {
	team := &lg.Teams[t]
	return lg.Clubs[team.Club].Name + " " + team.League + " " + team.Rank
}

// SetDivision assigns a team's division (must be >= 1; see Validate).
func (lg *League) SetDivision(t TeamID, division int) {
	lg.Teams[t].Division = division
}

// AddDate registers a calendar day. Dates must be unique by DateStr within
// the season. deltaDays is the day's offset from the season anchor;
// calendar is the actual day, used for weekday/year math (W_xmas, C7's
// pre/post Christmas split).
func (lg *League) AddDate(dateStr, leagueType, weekday string, deltaDays int, calendar time.Time) (DateID, error) {
	if _, dup := lg.dateByStr[dateStr]; dup {
		return 0, configErrorf("date %q already exists", dateStr)
	}
	id := DateID(len(lg.Dates))
	lg.Dates = append(lg.Dates, Date{
		ID:         id,
		DateStr:    dateStr,
		Calendar:   calendar,
		LeagueType: leagueType,
		Weekday:    weekday,
		DeltaDays:  deltaDays,
	})
	lg.dateByStr[dateStr] = id
	return id, nil
}

// DateByStr looks up a date's ID by its date string.
func (lg *League) DateByStr(dateStr string) (DateID, bool) {
	id, ok := lg.dateByStr[dateStr]
	return id, ok
}

// AddCourtSlot registers one playable court at a club on a date.
func (lg *League) AddCourtSlot(club ClubID, date DateID, concurrencyIndex int, priority bool) (CourtSlotID, error) {
	key := courtSlotKey{club: club, dateStr: lg.Dates[date].DateStr, concurrency: concurrencyIndex}
	if _, dup := lg.slotByKey[key]; dup {
		return 0, configErrorf("court slot %v already exists", key)
	}
	id := CourtSlotID(len(lg.CourtSlots))
	lg.CourtSlots = append(lg.CourtSlots, CourtSlot{
		ID:               id,
		Club:             club,
		Date:             date,
		ConcurrencyIndex: concurrencyIndex,
		Priority:         priority,
	})
	lg.Clubs[club].Courts = append(lg.Clubs[club].Courts, id)
	lg.Dates[date].CourtSlots = append(lg.Dates[date].CourtSlots, id)
	lg.slotByKey[key] = id
	return id, nil
}

// AddTeamToCourtSlot marks a team eligible to use a court slot. The team
// must belong to the slot's owning club.
func (lg *League) AddTeamToCourtSlot(slot CourtSlotID, team TeamID) error {
	cs := &lg.CourtSlots[slot]
	if lg.Teams[team].Club != cs.Club {
		return configErrorf("attempted to add team %q from a different club to court slot at %s",
			lg.TeamName(team), lg.Dates[cs.Date].DateStr)
	}
	for _, existing := range cs.Teams {
		if existing == team {
			return nil
		}
	}
	cs.Teams = append(cs.Teams, team)
	return nil
}

// FixtureName returns a fixture's "Home vs Away" display/identifier name.
func (lg *League) FixtureName(f FixtureID) string {
	fx := &lg.Fixtures[f]
	return lg.TeamName(fx.Home) + " vs " + lg.TeamName(fx.Away)
}

// Validate checks the invariants that must hold before fixtures are
// generated: every team has a non-zero division.
func (lg *League) Validate() error {
	for i := range lg.Teams {
		t := &lg.Teams[i]
		if t.Division == 0 {
			return configErrorf("team %q has no division assigned (missing from previous-league table)", lg.TeamName(TeamID(i)))
		}
		if t.Division < 0 {
			return configErrorf("team %q has invalid division %d", lg.TeamName(TeamID(i)), t.Division)
		}
	}
	return nil
}

// FCSByID returns a pointer to the FCS at the given index, for callers that
// need to mutate IsScheduled (the solver driver, during its final
// projection step).
func (lg *League) FCSByID(id FCSID) *FCS {
	return &lg.FCSes[id]
}

func (lg *League) String() string {
	return fmt.Sprintf("League{clubs=%d teams=%d dates=%d courtSlots=%d fixtures=%d fcses=%d}",
		len(lg.Clubs), len(lg.Teams), len(lg.Dates), len(lg.CourtSlots), len(lg.Fixtures), len(lg.FCSes))
}
