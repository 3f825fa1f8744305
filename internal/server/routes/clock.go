package routes

import "time"

var timeNow = time.Now
