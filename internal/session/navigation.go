package session

// MainMenu is the navigation fallback: popping an empty stack always lands
// here.
const MainMenu = "main"

// PushMenu records the menu the user is leaving so "back" can return to it.
// Depth is bounded only by normal usage; menu identifiers are not validated
// here, unrecognized ones are routed to the main menu by the caller.
func (s *Session) PushMenu(menuID string) {
	s.NavStack = append(s.NavStack, menuID)
}

// PopMenu removes and returns the most recent menu identifier, or MainMenu if
// the stack is empty. The stack is never left in an undefined state.
func (s *Session) PopMenu() string {
	if len(s.NavStack) == 0 {
		return MainMenu
	}
	last := s.NavStack[len(s.NavStack)-1]
	s.NavStack = s.NavStack[:len(s.NavStack)-1]
	return last
}

// ClearMenus empties the stack, used when jumping straight to the main menu.
func (s *Session) ClearMenus() {
	s.NavStack = s.NavStack[:0]
}
