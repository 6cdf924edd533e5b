// internal/game/auction.go
package game

import "github.com/childoftherion/ludomercatus-sub000/internal/models"

// startAuction opens bidding on a declined property. Bidding starts with
// the seat after the decliner and rotates through non-bankrupt seats.
func (g *Game) startAuction(propertyPos int) {
	g.Auction = &models.Auction{
		Property:      propertyPos,
		CurrentBid:    0,
		HighestBidder: -1,
		ActiveBidder:  g.nextEligibleBidder(g.CurrentPlayerIndex, nil),
		Passed:        make(map[int]bool),
	}
	g.Phase = PhaseAuction
	sp := g.Board[propertyPos]
	g.logEvent(-1, "auction opened on %s (minimum bid £%d)", sp.Name, g.Auction.MinimumBid(sp.Price))
	g.maybeCloseAuction()
}

// placeBid accepts a bid from the active bidder if it meets the minimum
// increment and the bidder can cover it.
func (g *Game) placeBid(seat, amount int) {
	a := g.Auction
	sp := g.Board[a.Property]
	p := g.Players[seat]
	minBid := a.MinimumBid(sp.Price)
	if amount < minBid {
		g.logEvent(seat, "bid of £%d rejected: minimum is £%d", amount, minBid)
		return
	}
	if amount > p.Cash {
		g.logEvent(seat, "%s cannot cover a £%d bid", p.Name, amount)
		return
	}
	a.CurrentBid = amount
	a.HighestBidder = seat
	g.logEvent(seat, "%s bid £%d on %s", p.Name, amount, sp.Name)
	a.ActiveBidder = g.nextEligibleBidder(seat, a)
	g.maybeCloseAuction()
}

// passAuction removes the active bidder from the rotation.
func (g *Game) passAuction(seat int) {
	a := g.Auction
	a.Passed[seat] = true
	g.logEvent(seat, "%s passed on the auction", g.Players[seat].Name)
	a.ActiveBidder = g.nextEligibleBidder(seat, a)
	g.maybeCloseAuction()
}

// nextEligibleBidder finds the next non-bankrupt, non-passed seat after the
// given one, wrapping around. Returns -1 when nobody is eligible.
func (g *Game) nextEligibleBidder(after int, a *models.Auction) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (after + i) % n
		if g.Players[seat].Bankrupt {
			continue
		}
		if a != nil && a.Passed[seat] {
			continue
		}
		return seat
	}
	return -1
}

// auctionEligibleCount counts seats still in the bidding rotation.
func (g *Game) auctionEligibleCount(a *models.Auction) int {
	count := 0
	for _, p := range g.Players {
		if !p.Bankrupt && !a.Passed[p.Seat] {
			count++
		}
	}
	return count
}

// maybeCloseAuction ends the auction when at most one eligible bidder
// remains: the sole standing bidder wins at the current bid, or the
// property stays unowned if nobody bid.
func (g *Game) maybeCloseAuction() {
	a := g.Auction
	if a == nil {
		return
	}
	eligible := g.auctionEligibleCount(a)
	if eligible > 1 {
		return
	}
	// A single eligible bidder who already holds the high bid has won; a
	// single eligible bidder with no bid yet still gets a chance to bid.
	if eligible == 1 && a.HighestBidder != a.ActiveBidder && a.ActiveBidder >= 0 {
		return
	}

	sp := g.Board[a.Property]
	if a.HighestBidder >= 0 {
		winner := g.Players[a.HighestBidder]
		winner.Cash -= a.CurrentBid
		sp.Owner = winner.Seat
		winner.Properties = append(winner.Properties, sp.Position)
		g.logEvent(winner.Seat, "%s won the auction for %s at £%d", winner.Name, sp.Name, a.CurrentBid)
	} else {
		g.logEvent(-1, "auction for %s closed with no bids; it stays unowned", sp.Name)
	}
	g.Auction = nil
	g.Phase = PhaseResolving
}

// cancelAuctionFor removes a bankrupt seat from any running auction,
// closing it if the seat held the high bid.
func (g *Game) cancelAuctionFor(seat int) {
	a := g.Auction
	if a == nil {
		return
	}
	if a.HighestBidder == seat {
		g.logEvent(-1, "auction for %s cancelled: high bidder went bankrupt", g.Board[a.Property].Name)
		g.Auction = nil
		g.Phase = PhaseResolving
		return
	}
	a.Passed[seat] = true
	if a.ActiveBidder == seat {
		a.ActiveBidder = g.nextEligibleBidder(seat, a)
	}
	g.maybeCloseAuction()
}
