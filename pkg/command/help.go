package command

// HelpText lists every verb Parse understands.
const HelpText = `Commands:
q | quit | exit                      -> terminate program
r 3d6 + 5                            -> roll dice and do some math
r 2d20 K1                            -> advantage (keep highest one)
r 2d20 k1                            -> disadvantage (keep lowest one)
battlemap [--url=IMAGE] [--columns=N] [--rows=N]
                                     -> replace the map, unset flags keep their value
token ID [--image=IMAGE] [--name=NAME] [--size=SIZE] [--max-health=N]
         [--pos=B3] [--initiative=N] -> create or update a token
h | help | ?                         -> print this help`
