package config

// Action names shared by keybindings, IPC and MCP.
const (
	ActionTileWindow              = "tile_window"
	ActionUntileWindow            = "untile_window"
	ActionToggleTile              = "toggle_tile"
	ActionNextWindow              = "next_window"
	ActionPrevWindow              = "prev_window"
	ActionSwapNextWindow          = "swap_next_window"
	ActionSwapPrevWindow          = "swap_prev_window"
	ActionIncreaseMainWindowCount = "increase_main_window_count"
	ActionDecreaseMainWindowCount = "decrease_main_window_count"
	ActionIncreasePartitionCount  = "increase_partition_count"
	ActionDecreasePartitionCount  = "decrease_partition_count"
	ActionIncreaseMainSplit       = "increase_main_split"
	ActionDecreaseMainSplit       = "decrease_main_split"
	ActionIncreaseSize            = "increase_size"
	ActionDecreaseSize            = "decrease_size"
	ActionScaleUp                 = "scale_up"
	ActionScaleDown               = "scale_down"
	ActionScaleUpX                = "scale_up_x"
	ActionScaleDownX              = "scale_down_x"
	ActionScaleUpY                = "scale_up_y"
	ActionScaleDownY              = "scale_down_y"
	ActionToggleMaximize          = "toggle_maximize"
	ActionMinimizeWindow          = "minimize_window"
	ActionUnminimizeLastWindow    = "unminimize_last_window"
	ActionActivateMainWindow      = "activate_main_window"
	ActionSwapWithMain            = "swap_with_main"
	ActionLayoutFloating          = "layout_floating"
	ActionLayoutVertical          = "layout_vertical"
	ActionLayoutHorizontal        = "layout_horizontal"
	ActionLayoutFullScreen        = "layout_fullscreen"
	ActionRestorePositions        = "restore_positions"
	ActionRelayout                = "relayout"
)

// Actions lists every action name in a stable order.
var Actions = []string{
	ActionTileWindow,
	ActionUntileWindow,
	ActionToggleTile,
	ActionNextWindow,
	ActionPrevWindow,
	ActionSwapNextWindow,
	ActionSwapPrevWindow,
	ActionIncreaseMainWindowCount,
	ActionDecreaseMainWindowCount,
	ActionIncreasePartitionCount,
	ActionDecreasePartitionCount,
	ActionIncreaseMainSplit,
	ActionDecreaseMainSplit,
	ActionIncreaseSize,
	ActionDecreaseSize,
	ActionScaleUp,
	ActionScaleDown,
	ActionScaleUpX,
	ActionScaleDownX,
	ActionScaleUpY,
	ActionScaleDownY,
	ActionToggleMaximize,
	ActionMinimizeWindow,
	ActionUnminimizeLastWindow,
	ActionActivateMainWindow,
	ActionSwapWithMain,
	ActionLayoutFloating,
	ActionLayoutVertical,
	ActionLayoutHorizontal,
	ActionLayoutFullScreen,
	ActionRestorePositions,
	ActionRelayout,
}

// IsAction reports whether name is a known action.
func IsAction(name string) bool {
	for _, a := range Actions {
		if a == name {
			return true
		}
	}
	return false
}

// DefaultKeybindings returns the stock bindings. Mod4 is the Super key.
// increase_size and decrease_size stay unbound: they move a tile's
// secondary split ratio, and the tiled layouts always split the secondary
// axis evenly.
func DefaultKeybindings() map[string]string {
	return map[string]string{
		ActionTileWindow:              "Mod4-t",
		ActionUntileWindow:            "Mod4-Shift-t",
		ActionNextWindow:              "Mod4-j",
		ActionPrevWindow:              "Mod4-k",
		ActionSwapNextWindow:          "Mod4-Shift-j",
		ActionSwapPrevWindow:          "Mod4-Shift-k",
		ActionIncreaseMainWindowCount: "Mod4-i",
		ActionDecreaseMainWindowCount: "Mod4-o",
		ActionIncreasePartitionCount:  "Mod4-Shift-i",
		ActionDecreasePartitionCount:  "Mod4-Shift-o",
		ActionIncreaseMainSplit:       "Mod4-l",
		ActionDecreaseMainSplit:       "Mod4-h",
		ActionScaleUp:                 "Mod4-equal",
		ActionScaleDown:               "Mod4-minus",
		ActionToggleMaximize:          "Mod4-z",
		ActionMinimizeWindow:          "Mod4-x",
		ActionUnminimizeLastWindow:    "Mod4-Shift-x",
		ActionActivateMainWindow:      "Mod4-space",
		ActionSwapWithMain:            "Mod4-Return",
		ActionLayoutFloating:          "Mod4-f",
		ActionLayoutVertical:          "Mod4-d",
		ActionLayoutHorizontal:        "Mod4-s",
		ActionLayoutFullScreen:        "Mod4-m",
	}
}
