package sim

// Post-match player ratings on the familiar 1-10 scale. Everyone who
// played starts from 6.0; match events move the needle, a small seeded
// wobble keeps identical stat lines from producing identical ratings.

const (
	ratingBase       = 6.0
	ratingGoal       = 1.0
	ratingAssist     = 0.5
	ratingYellow     = -0.3
	ratingRed        = -1.5
	ratingWin        = 0.4
	ratingCleanSheet = 0.8
	ratingMin        = 1.0
	ratingMax        = 10.0
)

// computeRatings grades every player who saw the pitch.
func computeRatings(squad map[int]*Player, s *MatchState) map[int]float64 {
	ratings := make(map[int]float64)
	winner := -1
	switch {
	case s.Teams[Home].Score > s.Teams[Away].Score:
		winner = int(Home)
	case s.Teams[Away].Score > s.Teams[Home].Score:
		winner = int(Away)
	}
	if winner < 0 && s.Shootout != nil && s.Shootout.Done {
		winner = int(s.Shootout.Result.Winner)
	}

	for side := Home; side <= Away; side++ {
		ts := &s.Teams[side]
		for id, mins := range ts.MinutesOn {
			if mins <= 0 {
				continue
			}
			r := ratingBase
			if winner == int(side) {
				r += ratingWin
			}
			p, ok := squad[id]
			if ok && RoleOf(p.Position) == RoleKeeper && s.Teams[side.Opponent()].Score == 0 {
				r += ratingCleanSheet
			}
			// Minutes-weighted wobble so a cameo cannot swing as far as a
			// full shift.
			wobble := (Draw(s.Seed, Offset(KindRating, 0, id))*2 - 1) * 0.3
			r += wobble * float64(mins) / 90.0
			ratings[id] = r
		}
	}

	for _, sc := range s.Scorers {
		if _, ok := ratings[sc.PlayerID]; ok {
			ratings[sc.PlayerID] += ratingGoal
		}
		if sc.AssistID != 0 {
			if _, ok := ratings[sc.AssistID]; ok {
				ratings[sc.AssistID] += ratingAssist
			}
		}
	}
	for _, c := range s.Cards {
		if _, ok := ratings[c.PlayerID]; !ok {
			continue
		}
		if c.Type == CardRed {
			ratings[c.PlayerID] += ratingRed
		} else {
			ratings[c.PlayerID] += ratingYellow
		}
	}

	for id, r := range ratings {
		ratings[id] = Clamp(r, ratingMin, ratingMax)
	}
	return ratings
}
